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

// Package shim owns the process-wide state of the fault-interception shim
// and the arm sequence that claims the managed signals.
//
// The armed flag here is the sole piece of shared mutable state in the
// system: the fault handlers read it implicitly through the guard and clear
// it on the unrecoverable-fault path, and the guard reads it on every
// interposed installation attempt. Races on it are benign: a stale read
// risks at most one extra recovery attempt or one early fall-through to
// default handling.
package shim

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
	"nullshim.dev/nullshim/pkg/log"
	"nullshim.dev/nullshim/pkg/seccomp"
	"nullshim.dev/nullshim/pkg/sigguard"
	"nullshim.dev/nullshim/pkg/sighandling"
	"nullshim.dev/nullshim/pkg/sysintercept"
)

// ManagedSignals are the fault kinds the shim claims and guards.
var ManagedSignals = []linux.Signal{linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL}

var (
	// armed is true once the shim's handlers are installed. It is cleared
	// on the unrecoverable-fault path so the next identical fault
	// terminates the process normally instead of looping.
	armed atomic.Bool

	guard       = sigguard.New(sighandling.KernelRegistrar{}, &armed, ManagedSignals...)
	interceptor = sysintercept.New(sysintercept.HostDispatcher)
)

// Guard returns the process-wide installation guard.
func Guard() *sigguard.Guard {
	return guard
}

// GuardFor builds a guard over a different underlying registrar that shares
// this shim's armed flag and managed-signal set. The interposition layer uses
// it to guard the libc-level registration path, whose sigaction layout the
// kernel registrar cannot accept.
func GuardFor(real sigguard.Registrar) *sigguard.Guard {
	return sigguard.New(real, &armed, ManagedSignals...)
}

// Interceptor returns the process-wide syscall interceptor.
func Interceptor() *sysintercept.Interceptor {
	return interceptor
}

// Armed reports whether the shim's handlers are active.
func Armed() bool {
	return armed.Load()
}

// Arm installs the shim's fault handlers directly with the kernel,
// bypassing the guard (nothing has raced it yet), and enables guarding.
// It must run before the host's own startup code installs competing
// handlers.
func Arm() error {
	if os.Getenv("NULLSHIM_DEBUG") != "" {
		log.SetLevel(log.Debug)
	}

	// Snapshot the current actions so a failed claim can be rolled back:
	// leaving some signals swapped and others not would strand the process
	// in a half-protected state.
	saved := make([]linux.SigAction, len(ManagedSignals))
	for i, sig := range ManagedSignals {
		if err := sighandling.Sigaction(sig, nil, &saved[i]); err != nil {
			return fmt.Errorf("reading action for signal %d: %w", sig, err)
		}
	}

	for i, sig := range ManagedSignals {
		entry := addrOfTrapEntry()
		if sig == linux.SIGSEGV {
			entry = addrOfBadAccessEntry()
		}
		var prev uintptr
		if err := sighandling.ReplaceSignalHandler(sig, entry, &prev); err != nil {
			for j := 0; j < i; j++ {
				sighandling.Sigaction(ManagedSignals[j], &saved[j], nil)
			}
			return fmt.Errorf("claiming signal %d: %w", sig, err)
		}
		log.Debugf("claimed signal %d (previous handler %#x)", sig, prev)
	}
	armed.Store(true)

	if os.Getenv("NULLSHIM_SECCOMP") == "1" {
		// Best effort: the libc-level interception still covers the
		// common path if the filter cannot be stacked here.
		if err := seccomp.Install(unix.SYS_CLONE3, uint16(unix.ENOSYS)); err != nil {
			log.Warningf("seccomp filter not installed: %v", err)
		}
	}
	return nil
}
