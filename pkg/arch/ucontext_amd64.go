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

//go:build amd64
// +build amd64

package arch

import (
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// SignalContext64 is equivalent to struct sigcontext, the register state
// embedded in the ucontext passed to a signal handler installed via raw
// rt_sigaction(2). This is the kernel layout (arch/x86/include/uapi/asm/
// sigcontext.h), not the glibc gregs array.
type SignalContext64 struct {
	R8      uint64
	R9      uint64
	R10     uint64
	R11     uint64
	R12     uint64
	R13     uint64
	R14     uint64
	R15     uint64
	Rdi     uint64
	Rsi     uint64
	Rbp     uint64
	Rbx     uint64
	Rdx     uint64
	Rax     uint64
	Rcx     uint64
	Rsp     uint64
	Rip     uint64
	Eflags  uint64
	Cs      uint16
	Gs      uint16
	Fs      uint16
	Ss      uint16
	Err     uint64
	Trapno  uint64
	Oldmask linux.SignalSet
	Cr2     uint64
	// Fpstate is a pointer to a struct _fpstate.
	Fpstate  uint64
	Reserved [8]uint64
}

// SignalStack is the alternate signal stack description (stack_t).
type SignalStack struct {
	Addr  uint64
	Flags uint32
	_     uint32
	Size  uint64
}

// UContext64 is equivalent to ucontext_t on 64-bit x86.
type UContext64 struct {
	Flags    uint64
	Link     uint64
	Stack    SignalStack
	MContext SignalContext64
	Sigset   linux.SignalSet
}

// IP implements Context.IP.
//
//go:nosplit
func (uc *UContext64) IP() uintptr {
	return uintptr(uc.MContext.Rip)
}

// SetIP implements Context.SetIP.
//
//go:nosplit
func (uc *UContext64) SetIP(v uintptr) {
	uc.MContext.Rip = uint64(v)
}

// SP implements Context.SP.
//
//go:nosplit
func (uc *UContext64) SP() uintptr {
	return uintptr(uc.MContext.Rsp)
}

// SetSP implements Context.SetSP.
//
//go:nosplit
func (uc *UContext64) SetSP(v uintptr) {
	uc.MContext.Rsp = uint64(v)
}

// FP implements Context.FP.
//
//go:nosplit
func (uc *UContext64) FP() uintptr {
	return uintptr(uc.MContext.Rbp)
}

// SetFP implements Context.SetFP.
//
//go:nosplit
func (uc *UContext64) SetFP(v uintptr) {
	uc.MContext.Rbp = uint64(v)
}

// SetRet implements Context.SetRet. The return value register is rax.
//
//go:nosplit
func (uc *UContext64) SetRet(v uintptr) {
	uc.MContext.Rax = uint64(v)
}
