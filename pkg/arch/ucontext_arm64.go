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

//go:build arm64
// +build arm64

package arch

import (
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// SignalContext64 is equivalent to struct sigcontext on arm64
// (arch/arm64/include/uapi/asm/sigcontext.h).
type SignalContext64 struct {
	FaultAddr uint64
	Regs      [31]uint64
	Sp        uint64
	Pc        uint64
	Pstate    uint64
	_pad      [8]byte // __attribute__((__aligned__(16)))
	Reserved  [4096]uint8
}

// SignalStack is the alternate signal stack description (stack_t).
type SignalStack struct {
	Addr  uint64
	Flags uint32
	_     uint32
	Size  uint64
}

// UContext64 is equivalent to ucontext on arm64
// (arch/arm64/include/uapi/asm/ucontext.h).
type UContext64 struct {
	Flags  uint64
	Link   uint64
	Stack  SignalStack
	Sigset linux.SignalSet
	// glibc uses a 1024-bit sigset_t.
	_pad [(1024 - 64) / 8]byte
	// sigcontext must be aligned to 16-byte.
	_pad2 [8]byte
	// last for future expansion.
	MContext SignalContext64
}

// The arm64 procedure call standard: x29 is the frame pointer, x0 carries
// the return value. The saved frame record at [x29] is {fp, lr}, the same
// shape as the amd64 rbp chain, so the classifier's frame walking applies
// unchanged.
const (
	regFP  = 29
	regRet = 0
)

// IP implements Context.IP.
//
//go:nosplit
func (uc *UContext64) IP() uintptr {
	return uintptr(uc.MContext.Pc)
}

// SetIP implements Context.SetIP.
//
//go:nosplit
func (uc *UContext64) SetIP(v uintptr) {
	uc.MContext.Pc = uint64(v)
}

// SP implements Context.SP.
//
//go:nosplit
func (uc *UContext64) SP() uintptr {
	return uintptr(uc.MContext.Sp)
}

// SetSP implements Context.SetSP.
//
//go:nosplit
func (uc *UContext64) SetSP(v uintptr) {
	uc.MContext.Sp = uint64(v)
}

// FP implements Context.FP.
//
//go:nosplit
func (uc *UContext64) FP() uintptr {
	return uintptr(uc.MContext.Regs[regFP])
}

// SetFP implements Context.SetFP.
//
//go:nosplit
func (uc *UContext64) SetFP(v uintptr) {
	uc.MContext.Regs[regFP] = uint64(v)
}

// SetRet implements Context.SetRet. The return value register is x0.
//
//go:nosplit
func (uc *UContext64) SetRet(v uintptr) {
	uc.MContext.Regs[regRet] = uint64(v)
}
