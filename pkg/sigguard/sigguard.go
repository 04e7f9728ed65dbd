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

// Package sigguard intercepts attempts by the host process to install or
// replace fault handlers for the signals the shim manages.
//
// The host's own fault-reporting machinery (crashpad, in the CEF case)
// re-registers handlers for SIGSEGV, SIGTRAP and SIGILL at arbitrary points
// after startup, which would evict the shim's handlers. The guard wraps the
// real registration facility: while the shim is armed, installs for managed
// signals are accepted and discarded, and everything else passes through
// unchanged. The host's code never sees a failure, because it does not
// expect installation to fail.
package sigguard

import (
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
	"nullshim.dev/nullshim/pkg/log"
)

// Crash reporters reinstall their handlers in bursts, so discards are
// logged rate limited.
var discardLog = log.RateLimited(log.Log(), 30*time.Second)

// Registrar is the underlying signal-registration facility. act and oldact
// are opaque to the guard: it only ever tests act for nil-ness and forwards
// both pointers, so the same guard fronts the kernel facility (where the
// pointers are kernel-layout sigactions) and a libc facility (where they are
// glibc-layout and must not be reinterpreted).
//
// A nil act is a read-only query. A nil oldact requests no readback. The
// return value is 0 on success.
type Registrar interface {
	Sigaction(sig linux.Signal, act, oldact unsafe.Pointer) unix.Errno
}

// Guard applies the interception policy in front of a Registrar.
//
// Guard is safe for concurrent use: the host may be installing unrelated
// handlers on one thread while another thread faults.
type Guard struct {
	real    Registrar
	armed   *atomic.Bool
	managed linux.SignalSet
}

// New returns a Guard over real. While armed is true, installation requests
// for the managed signals are discarded.
func New(real Registrar, armed *atomic.Bool, managed ...linux.Signal) *Guard {
	g := &Guard{real: real, armed: armed}
	for _, sig := range managed {
		g.managed |= linux.SignalSetOf(sig)
	}
	return g
}

// Managed returns whether sig is one of the fault kinds the guard protects.
func (g *Guard) Managed(sig linux.Signal) bool {
	return sig.IsValid() && g.managed&linux.SignalSetOf(sig) != 0
}

// Sigaction applies the guard policy to an install/replace request.
//
// While armed, a request to install a handler (act non-nil) for a managed
// signal is accepted but discarded; a readback request riding on it is still
// answered truthfully from the real facility. Read-only queries, unmanaged
// signals, and everything while unarmed pass through unmodified.
func (g *Guard) Sigaction(sig linux.Signal, act, oldact unsafe.Pointer) unix.Errno {
	if g.armed.Load() && act != nil && g.Managed(sig) {
		discardLog.Debugf("discarded handler install for signal %d", sig)
		if oldact != nil {
			return g.real.Sigaction(sig, nil, oldact)
		}
		return 0
	}
	return g.real.Sigaction(sig, act, oldact)
}

// Guarded returns whether an installation attempt for sig would be
// discarded right now. It is the decision point for registration surfaces
// that cannot route their action structures through Sigaction, such as the
// signal(2)-style interface: the interposition layer asks Guarded, echoes
// the default-handler indicator for discarded installs, and otherwise
// forwards to the next registration facility in the chain, which owns the
// action layout and its restorer.
func (g *Guard) Guarded(sig linux.Signal) bool {
	return g.armed.Load() && g.Managed(sig)
}
