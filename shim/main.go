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

// Binary nullshim is the preloadable fault-interception library.
//
// Built with -buildmode=c-shared, it interposes the host's sigaction,
// signal and syscall entry points (definitions in interpose.c), claims
// SIGSEGV, SIGTRAP and SIGILL from an early ELF constructor, and rewrites
// the execution context of recognized fault classes so the interrupted
// call observes a zero return instead of crashing the process.
package main

/*
#cgo LDFLAGS: -ldl

#include <stdint.h>

// Defined in interpose.c. act and oldact are glibc-layout struct
// sigaction pointers, passed through opaquely. Returns 0 or an errno.
extern int nullshim_real_sigaction(int signum, const void *act, void *oldact);
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
	"nullshim.dev/nullshim/pkg/log"
	"nullshim.dev/nullshim/pkg/shim"
	"nullshim.dev/nullshim/pkg/sigguard"
)

// libcRegistrar registers through the host's next sigaction in the lookup
// chain. The opaque pointers carry the glibc sigaction layout, which only
// the C side interprets.
type libcRegistrar struct{}

func (libcRegistrar) Sigaction(sig linux.Signal, act, oldact unsafe.Pointer) unix.Errno {
	return unix.Errno(C.nullshim_real_sigaction(C.int(sig), act, oldact))
}

// libcGuard fronts the interposed sigaction symbol. It shares the armed
// flag and managed set with the kernel-level guard behind the interposed
// signal symbol, so both surfaces flip together.
var libcGuard = shim.GuardFor(libcRegistrar{})

// nullshimArm claims the managed signals and enables guarding. Called from
// the ELF constructor in interpose.c; a failure here leaves the host
// running unprotected rather than killing it.
//
//export nullshimArm
func nullshimArm() {
	if err := shim.Arm(); err != nil {
		log.Warningf("not armed: %v", err)
	}
}

// nullshimSigaction backs the interposed sigaction symbol. Returns 0 on
// success or an errno value.
//
//export nullshimSigaction
func nullshimSigaction(signum C.int, act, oldact unsafe.Pointer) C.int {
	return C.int(libcGuard.Sigaction(linux.Signal(signum), act, oldact))
}

// nullshimSignalGuarded backs the interposed signal symbol, which installs
// through the next libc signal in the chain (libc owns that interface's
// action layout and restorer). Only the discard decision lives here.
//
//export nullshimSignalGuarded
func nullshimSignalGuarded(signum C.int) C.int {
	if libcGuard.Guarded(linux.Signal(signum)) {
		return 1
	}
	return 0
}

// nullshimSyscall backs the interposed syscall symbol. The result errno is
// written to errOut (0 on success) and the raw return value is returned.
//
//export nullshimSyscall
func nullshimSyscall(nr, a1, a2, a3, a4, a5, a6 C.long, errOut *C.int) C.long {
	ret, errno := shim.Interceptor().Dispatch(
		uintptr(nr), uintptr(a1), uintptr(a2), uintptr(a3),
		uintptr(a4), uintptr(a5), uintptr(a6))
	*errOut = C.int(errno)
	return C.long(ret)
}

var _ sigguard.Registrar = libcRegistrar{}

func main() {}
