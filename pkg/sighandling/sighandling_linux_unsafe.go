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

//go:build linux
// +build linux

// Package sighandling installs and replaces signal handlers through raw
// rt_sigaction(2), below both glibc and the Go runtime. It is the real
// registration facility that the installation guard decorates, and the
// facility the shim itself uses to claim its signals at arm time.
package sighandling

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// RawSigaction invokes rt_sigaction(2) directly. act and oldact may be nil.
// It returns 0 on success.
//
// It is safe to call from a signal handler.
//
//go:nosplit
func RawSigaction(sig linux.Signal, act, oldact *linux.SigAction) unix.Errno {
	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGACTION,
		uintptr(sig),
		uintptr(unsafe.Pointer(act)),
		uintptr(unsafe.Pointer(oldact)),
		linux.SignalSetSize, 0, 0)
	return errno
}

// Sigaction is RawSigaction with an error return, for callers outside signal
// handlers.
func Sigaction(sig linux.Signal, act, oldact *linux.SigAction) error {
	if errno := RawSigaction(sig, act, oldact); errno != 0 {
		return fmt.Errorf("rt_sigaction(%d): %w", sig, errno)
	}
	return nil
}

// ReplaceSignalHandler replaces the existing signal handler for the provided
// signal with the function pointer at `handler`. This bypasses the Go runtime
// signal handlers and glibc both.
//
// When a handler is already installed, its flags, restorer and mask are
// preserved: only the handler pointer is swapped. When the disposition is
// still SIG_DFL or SIG_IGN there is no restorer to preserve and none can be
// synthesized here, so the frame machinery is borrowed from SIGSEGV, which
// always carries a runtime-installed action by the time this runs (the
// runtime claims the panic signals even in its c-shared preinit, where
// dispositions like SIGTRAP are still untouched from exec).
//
// It stores the value of the previously set handler in previous.
func ReplaceSignalHandler(sig linux.Signal, handler uintptr, previous *uintptr) error {
	var sa linux.SigAction
	if err := Sigaction(sig, nil, &sa); err != nil {
		return err
	}
	*previous = uintptr(sa.Handler)

	if sa.Handler == linux.SIG_DFL || sa.Handler == linux.SIG_IGN {
		var donor linux.SigAction
		if err := Sigaction(linux.SIGSEGV, nil, &donor); err != nil {
			return err
		}
		if donor.Handler == linux.SIG_DFL || donor.Handler == linux.SIG_IGN {
			return fmt.Errorf("no action to borrow a restorer from for signal %d", sig)
		}
		sa = donor
	}

	sa.Handler = uint64(handler)
	sa.Flags |= linux.SA_SIGINFO | linux.SA_NODEFER
	return Sigaction(sig, &sa, nil)
}

// KernelRegistrar exposes the raw facility in the shape the installation
// guard decorates. The opaque pointers are kernel-layout *linux.SigAction.
type KernelRegistrar struct{}

// Sigaction implements the guard's underlying registration call.
func (KernelRegistrar) Sigaction(sig linux.Signal, act, oldact unsafe.Pointer) unix.Errno {
	return RawSigaction(sig, (*linux.SigAction)(act), (*linux.SigAction)(oldact))
}

// RestoreDefault restores the default disposition for the signal. It is safe
// to call from a signal handler: re-raising a fault after this terminates
// the process as if the shim were never present.
//
//go:nosplit
func RestoreDefault(sig linux.Signal) unix.Errno {
	var sa linux.SigAction
	sa.Handler = linux.SIG_DFL
	return RawSigaction(sig, &sa, nil)
}

// Raise re-delivers the signal to the calling thread via tgkill(2). With the
// default disposition restored this terminates the process with the usual
// fault report.
//
//go:nosplit
func Raise(sig linux.Signal) unix.Errno {
	pid, _, _ := unix.RawSyscall(unix.SYS_GETPID, 0, 0, 0)
	tid, _, _ := unix.RawSyscall(unix.SYS_GETTID, 0, 0, 0)
	_, _, errno := unix.RawSyscall(unix.SYS_TGKILL, pid, tid, uintptr(sig))
	return errno
}
