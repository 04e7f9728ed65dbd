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

package sighandling

import (
	"os"
	"os/signal"
	"testing"
	"time"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
)

func TestQueryCurrentAction(t *testing.T) {
	var sa linux.SigAction
	if errno := RawSigaction(linux.Signal(unix.SIGUSR1), nil, &sa); errno != 0 {
		t.Fatalf("RawSigaction query failed: %v", errno)
	}
}

func TestInvalidSignal(t *testing.T) {
	var sa linux.SigAction
	if errno := RawSigaction(linux.Signal(0), nil, &sa); errno != unix.EINVAL {
		t.Errorf("RawSigaction(0) got errno %v, want EINVAL", errno)
	}
	if err := Sigaction(linux.Signal(0), nil, &sa); err == nil {
		t.Error("Sigaction(0) succeeded, want error")
	}
}

func TestRaiseDelivers(t *testing.T) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGUSR1)
	defer signal.Stop(ch)

	if errno := Raise(linux.Signal(unix.SIGUSR1)); errno != 0 {
		t.Fatalf("Raise failed: %v", errno)
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("signal not delivered")
	}
}

// SIGWINCH is safe to reset: its default action is to ignore.
func TestRestoreDefault(t *testing.T) {
	sig := linux.Signal(unix.SIGWINCH)
	if errno := RestoreDefault(sig); errno != 0 {
		t.Fatalf("RestoreDefault failed: %v", errno)
	}
	var sa linux.SigAction
	if errno := RawSigaction(sig, nil, &sa); errno != 0 {
		t.Fatalf("RawSigaction query failed: %v", errno)
	}
	if sa.Handler != linux.SIG_DFL {
		t.Errorf("handler after RestoreDefault is %#x, want SIG_DFL", sa.Handler)
	}
}

// A disposition untouched since exec has no restorer to preserve; the
// replacement must still succeed by borrowing SIGSEGV's frame machinery.
// Uses an unused realtime signal so the borrowed-in handler never runs.
func TestReplaceOverDefaultBorrowsRestorer(t *testing.T) {
	sig := linux.Signal(36)
	var orig linux.SigAction
	if errno := RawSigaction(sig, nil, &orig); errno != 0 {
		t.Fatalf("reading original action: %v", errno)
	}
	defer RawSigaction(sig, &orig, nil)

	if errno := RestoreDefault(sig); errno != 0 {
		t.Fatalf("RestoreDefault failed: %v", errno)
	}

	const handler = uintptr(0x7f00dead0000)
	var prev uintptr
	if err := ReplaceSignalHandler(sig, handler, &prev); err != nil {
		t.Fatalf("ReplaceSignalHandler over SIG_DFL failed: %v", err)
	}
	if prev != linux.SIG_DFL {
		t.Errorf("previous handler %#x, want SIG_DFL", prev)
	}

	var got, donor linux.SigAction
	if errno := RawSigaction(sig, nil, &got); errno != 0 {
		t.Fatalf("reading installed action: %v", errno)
	}
	if errno := RawSigaction(linux.SIGSEGV, nil, &donor); errno != 0 {
		t.Fatalf("reading donor action: %v", errno)
	}
	if got.Handler != uint64(handler) {
		t.Errorf("installed handler %#x, want %#x", got.Handler, handler)
	}
	if got.Restorer != donor.Restorer {
		t.Errorf("restorer %#x, want SIGSEGV's %#x", got.Restorer, donor.Restorer)
	}
	if want := uint64(linux.SA_SIGINFO | linux.SA_NODEFER); got.Flags&want != want {
		t.Errorf("flags %#x missing SA_SIGINFO|SA_NODEFER", got.Flags)
	}
}
