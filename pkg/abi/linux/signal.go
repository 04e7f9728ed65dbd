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

// Package linux contains the kernel ABI definitions the shim needs to talk to
// rt_sigaction and seccomp directly, below glibc.
package linux

// Signal is a signal number.
type Signal int

// IsValid returns true if s is a valid standard or realtime signal. (0 is not
// considered valid.)
func (s Signal) IsValid() bool {
	return s > 0 && s <= SignalMaximum
}

// Index returns the index for signal s into arrays of both standard and
// realtime signals (i.e. the signal number minus 1).
func (s Signal) Index() int {
	return int(s - 1)
}

// Signals the shim cares about.
const (
	SIGILL  = Signal(4)
	SIGTRAP = Signal(5)
	SIGBUS  = Signal(7)
	SIGSEGV = Signal(11)

	// SignalMaximum is the highest valid signal number.
	SignalMaximum = 64
)

// Signal actions, from include/uapi/asm-generic/signal-defs.h.
const (
	// SIG_DFL performs the default action.
	SIG_DFL = 0

	// SIG_IGN ignores the signal.
	SIG_IGN = 1
)

// Signal action flags, from include/uapi/asm-generic/signal.h.
const (
	SA_NOCLDSTOP = 0x00000001
	SA_NOCLDWAIT = 0x00000002
	SA_SIGINFO   = 0x00000004
	SA_RESTORER  = 0x04000000
	SA_ONSTACK   = 0x08000000
	SA_RESTART   = 0x10000000
	SA_NODEFER   = 0x40000000
	SA_RESETHAND = 0x80000000
)

// SignalSet is a signal mask with a bit corresponding to each signal.
type SignalSet uint64

// SignalSetSize is the size in bytes of a SignalSet.
const SignalSetSize = 8

// SignalSetOf returns a SignalSet with a single signal set.
func SignalSetOf(sig Signal) SignalSet {
	return SignalSet(1) << uint(sig.Index())
}

// SigAction represents struct sigaction as passed to rt_sigaction(2). This is
// the kernel layout, not the glibc one: the kernel puts the mask last and
// expects the restorer pointer inline.
type SigAction struct {
	Handler  uint64
	Flags    uint64
	Restorer uint64
	Mask     SignalSet
}

// Si codes for SIGSEGV, from include/uapi/asm-generic/siginfo.h.
const (
	// SEGV_MAPERR is "address not mapped to object".
	SEGV_MAPERR = 1

	// SEGV_ACCERR is "invalid permissions for mapped object".
	SEGV_ACCERR = 2
)
