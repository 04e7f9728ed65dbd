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

// Package sysintercept wraps the raw system-call dispatch entry point so
// that one targeted call number fails with ENOSYS instead of reaching the
// kernel.
//
// The target is clone3: newer kernels prefer it for process spawning, but
// the sandbox inside the host process denies it, so spawns fail in a way the
// host cannot recover from. Failing clone3 with "not implemented" engages
// glibc's own fallback to clone, which the sandbox permits.
package sysintercept

import (
	"golang.org/x/sys/unix"
)

// Dispatcher forwards a raw system call with up to six arguments to the
// kernel. The caller always supplies all six slots, since the true arity of
// a call site is unknowable without decoding the call number.
type Dispatcher func(nr, a1, a2, a3, a4, a5, a6 uintptr) (uintptr, unix.Errno)

// HostDispatcher forwards to the host kernel.
func HostDispatcher(nr, a1, a2, a3, a4, a5, a6 uintptr) (uintptr, unix.Errno) {
	r1, _, errno := unix.Syscall6(nr, a1, a2, a3, a4, a5, a6)
	return r1, errno
}

// Interceptor fails one targeted call number and forwards all others
// unmodified.
type Interceptor struct {
	next   Dispatcher
	target uintptr
	errno  unix.Errno
}

// New returns an Interceptor that fails clone3 with ENOSYS and forwards
// everything else to next.
func New(next Dispatcher) *Interceptor {
	return &Interceptor{
		next:   next,
		target: unix.SYS_CLONE3,
		errno:  unix.ENOSYS,
	}
}

// Dispatch applies the interception policy. For the targeted call number it
// returns the designated errno without touching the kernel; every other
// number is forwarded with all six argument slots and its result returned
// unmodified.
func (i *Interceptor) Dispatch(nr, a1, a2, a3, a4, a5, a6 uintptr) (uintptr, unix.Errno) {
	if nr == i.target {
		return 0, i.errno
	}
	return i.next(nr, a1, a2, a3, a4, a5, a6)
}
