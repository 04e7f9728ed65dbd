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

// Package bpf provides construction and interpretation of the classic-BPF
// programs that seccomp(2) consumes. Only little endian systems are
// supported.
package bpf

import (
	"nullshim.dev/nullshim/pkg/abi/linux"
)

// MaxInstructions is the maximum number of instructions in a BPF program, from
// include/uapi/linux/bpf_common.h.
const MaxInstructions = 4096

// ScratchMemRegisters is the number of M registers in a BPF virtual machine.
const ScratchMemRegisters = 16

// Class of instruction, stored in bits 0-2 of the opcode.
const (
	Ld   = 0x00
	Ldx  = 0x01
	St   = 0x02
	Stx  = 0x03
	Alu  = 0x04
	Jmp  = 0x05
	Ret  = 0x06
	Misc = 0x07
)

// Size of a load, stored in bits 3-4 of the opcode.
const (
	W = 0x00 // 32 bits
	H = 0x08 // 16 bits
	B = 0x10 // 8 bits
)

// Source operand of a load, stored in bits 5-7 of the opcode.
const (
	Imm = 0x00 // immediate value K
	Abs = 0x20 // data in input at byte offset K
	Ind = 0x40 // data in input at byte offset X+K
	Mem = 0x60 // M[K]
	Len = 0x80 // length of the input in bytes
	Msh = 0xa0 // 4 * lower nibble of input at byte offset K
)

// Source operand of an ALU or jump operation, stored in bit 3 of the opcode.
const (
	K = 0x00 // immediate value K
	X = 0x08 // X register
)

// ALU operation, stored in bits 4-7 of the opcode.
const (
	Add = 0x00
	Sub = 0x10
	Mul = 0x20
	Div = 0x30
	Or  = 0x40
	And = 0x50
	Lsh = 0x60
	Rsh = 0x70
	Neg = 0x80
	Mod = 0x90
	Xor = 0xa0
)

// Jump operation, stored in bits 4-7 of the opcode.
const (
	Ja   = 0x00
	Jeq  = 0x10
	Jgt  = 0x20
	Jge  = 0x30
	Jset = 0x40
)

// Source operand of a return, stored in bits 3-4 of the opcode.
const (
	// K is defined above

	// A is the accumulator.
	A = 0x10
)

// Miscellaneous operation, stored in bits 3-7 of the opcode.
const (
	Tax = 0x00 // X = A
	Txa = 0x80 // A = X
)

// Stmt returns a linux.BPFInstruction that encodes a BPF non-jump statement.
func Stmt(code uint16, k uint32) linux.BPFInstruction {
	return linux.BPFInstruction{
		OpCode: code,
		K:      k,
	}
}

// Jump returns a linux.BPFInstruction that encodes a BPF jump statement.
func Jump(code uint16, k uint32, jt, jf uint8) linux.BPFInstruction {
	return linux.BPFInstruction{
		OpCode:      code,
		JumpIfTrue:  jt,
		JumpIfFalse: jf,
		K:           k,
	}
}
