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

package sigguard

import (
	"sync/atomic"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// fakeRegistrar simulates the kernel's per-signal action table.
type fakeRegistrar struct {
	actions map[linux.Signal]linux.SigAction
	calls   int
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{actions: make(map[linux.Signal]linux.SigAction)}
}

func (f *fakeRegistrar) Sigaction(sig linux.Signal, act, oldact unsafe.Pointer) unix.Errno {
	f.calls++
	if !sig.IsValid() {
		return unix.EINVAL
	}
	if oldact != nil {
		*(*linux.SigAction)(oldact) = f.actions[sig]
	}
	if act != nil {
		f.actions[sig] = *(*linux.SigAction)(act)
	}
	return 0
}

func (f *fakeRegistrar) handler(sig linux.Signal) uint64 {
	return f.actions[sig].Handler
}

const shimHandler = 0xdead0000

const (
	sigUSR1 = linux.Signal(10)
	sigUSR2 = linux.Signal(12)
)

// newArmedGuard returns a guard over a registrar that already holds the
// shim's handler for the managed signals, mirroring the state right after
// arming.
func newArmedGuard() (*Guard, *fakeRegistrar, *atomic.Bool) {
	real := newFakeRegistrar()
	for _, sig := range []linux.Signal{linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL} {
		real.actions[sig] = linux.SigAction{Handler: shimHandler}
	}
	var armed atomic.Bool
	armed.Store(true)
	g := New(real, &armed, linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL)
	return g, real, &armed
}

func TestGuardDiscardsManagedInstall(t *testing.T) {
	for _, sig := range []linux.Signal{linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL} {
		g, real, _ := newArmedGuard()
		act := linux.SigAction{Handler: 0xbadbad}
		if errno := g.Sigaction(sig, unsafe.Pointer(&act), nil); errno != 0 {
			t.Fatalf("sig %d: guarded install returned errno %v, want success", sig, errno)
		}
		if got := real.handler(sig); got != shimHandler {
			t.Errorf("sig %d: effective handler changed to %#x, want %#x", sig, got, uint64(shimHandler))
		}
	}
}

func TestGuardAnswersReadbackTruthfully(t *testing.T) {
	g, real, _ := newArmedGuard()
	act := linux.SigAction{Handler: 0xbadbad}
	var old linux.SigAction
	if errno := g.Sigaction(linux.SIGSEGV, unsafe.Pointer(&act), unsafe.Pointer(&old)); errno != 0 {
		t.Fatalf("guarded install returned errno %v, want success", errno)
	}
	if old.Handler != shimHandler {
		t.Errorf("readback returned handler %#x, want the real current handler %#x", old.Handler, uint64(shimHandler))
	}
	if got := real.handler(linux.SIGSEGV); got != shimHandler {
		t.Errorf("effective handler changed to %#x, want %#x", got, uint64(shimHandler))
	}
}

func TestGuardPassesThroughQueries(t *testing.T) {
	g, _, _ := newArmedGuard()
	var old linux.SigAction
	if errno := g.Sigaction(linux.SIGSEGV, nil, unsafe.Pointer(&old)); errno != 0 {
		t.Fatalf("query returned errno %v, want success", errno)
	}
	if old.Handler != shimHandler {
		t.Errorf("query returned handler %#x, want %#x", old.Handler, uint64(shimHandler))
	}
}

func TestGuardPassesThroughUnmanagedSignals(t *testing.T) {
	g, real, _ := newArmedGuard()
	act := linux.SigAction{Handler: 0x1111}
	if errno := g.Sigaction(sigUSR1, unsafe.Pointer(&act), nil); errno != 0 {
		t.Fatalf("unmanaged install returned errno %v, want success", errno)
	}
	if got := real.handler(sigUSR1); got != 0x1111 {
		t.Errorf("unmanaged install not effective: handler=%#x, want %#x", got, 0x1111)
	}
}

func TestGuardDisarmedPassesThrough(t *testing.T) {
	g, real, armed := newArmedGuard()
	armed.Store(false)
	act := linux.SigAction{Handler: 0x2222}
	if errno := g.Sigaction(linux.SIGSEGV, unsafe.Pointer(&act), nil); errno != 0 {
		t.Fatalf("disarmed install returned errno %v, want success", errno)
	}
	if got := real.handler(linux.SIGSEGV); got != 0x2222 {
		t.Errorf("disarmed install not effective: handler=%#x, want %#x", got, 0x2222)
	}
}

func TestGuardIdempotentUnderRepeatedInstalls(t *testing.T) {
	g, real, _ := newArmedGuard()
	for i := 0; i < 10; i++ {
		act := linux.SigAction{Handler: uint64(0x1000 + i)}
		var old linux.SigAction
		if errno := g.Sigaction(linux.SIGTRAP, unsafe.Pointer(&act), unsafe.Pointer(&old)); errno != 0 {
			t.Fatalf("install %d returned errno %v", i, errno)
		}
		if old.Handler != shimHandler {
			t.Errorf("install %d: readback %#x, want %#x", i, old.Handler, uint64(shimHandler))
		}
	}
	if got := real.handler(linux.SIGTRAP); got != shimHandler {
		t.Errorf("effective handler drifted to %#x, want %#x", got, uint64(shimHandler))
	}
}

func TestGuardedDecision(t *testing.T) {
	// The signal(2)-style interposer installs nothing itself: it asks
	// Guarded and either echoes SIG_DFL or forwards to the next facility.
	// The decision must cover exactly the managed signals while armed.
	g, _, armed := newArmedGuard()
	for _, sig := range []linux.Signal{linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL} {
		if !g.Guarded(sig) {
			t.Errorf("armed: signal %d not guarded", sig)
		}
	}
	for _, sig := range []linux.Signal{linux.SIGBUS, sigUSR1, sigUSR2} {
		if g.Guarded(sig) {
			t.Errorf("armed: unmanaged signal %d guarded", sig)
		}
	}

	armed.Store(false)
	for _, sig := range []linux.Signal{linux.SIGSEGV, linux.SIGTRAP, linux.SIGILL} {
		if g.Guarded(sig) {
			t.Errorf("disarmed: signal %d still guarded", sig)
		}
	}
}

func TestGuardInvalidSignal(t *testing.T) {
	g, _, _ := newArmedGuard()
	act := linux.SigAction{Handler: 0x5555}
	if errno := g.Sigaction(linux.Signal(0), unsafe.Pointer(&act), nil); errno != unix.EINVAL {
		t.Errorf("invalid signal returned errno %v, want EINVAL", errno)
	}
}
