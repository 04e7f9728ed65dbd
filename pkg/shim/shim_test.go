// Copyright 2026 The nullshim Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shim

import (
	"testing"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// Arming is deliberately not exercised here: it would remove the test
// process's runtime fault handlers. The victim binary covers the armed
// paths in its own process.

func TestManagedSet(t *testing.T) {
	for _, sig := range ManagedSignals {
		if !Guard().Managed(sig) {
			t.Errorf("signal %d not managed", sig)
		}
	}
	for _, sig := range []linux.Signal{linux.SIGBUS, linux.Signal(unix.SIGUSR1), linux.Signal(unix.SIGTERM)} {
		if Guard().Managed(sig) {
			t.Errorf("signal %d unexpectedly managed", sig)
		}
	}
}

func TestNotArmedInitially(t *testing.T) {
	if Armed() {
		t.Error("shim armed before Arm")
	}
}

func TestEntryAddresses(t *testing.T) {
	if addrOfBadAccessEntry() == 0 || addrOfTrapEntry() == 0 {
		t.Error("entry trampoline address is zero")
	}
	if addrOfBadAccessEntry() == addrOfTrapEntry() {
		t.Error("trampolines share an address")
	}
}
