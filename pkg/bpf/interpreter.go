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

package bpf

import (
	"encoding/binary"
	"fmt"

	"nullshim.dev/nullshim/pkg/abi/linux"
)

// Possible values for Error.Code.
const (
	// DivisionByZero indicates that a program contains, or executed, a
	// division or modulo by zero.
	DivisionByZero = iota

	// InvalidEndOfProgram indicates that the last instruction of a program is
	// not a return.
	InvalidEndOfProgram

	// InvalidInstructionCount indicates that a program has zero instructions
	// or more than MaxInstructions instructions.
	InvalidInstructionCount

	// InvalidJumpTarget indicates that a program contains a jump whose target
	// is outside of the program's bounds.
	InvalidJumpTarget

	// InvalidLoad indicates that a program executed an invalid load of input
	// data.
	InvalidLoad

	// InvalidOpcode indicates that a program contains an instruction with an
	// invalid opcode.
	InvalidOpcode

	// InvalidRegister indicates that a program contains a load from, or store
	// to, a non-existent M register (index >= ScratchMemRegisters).
	InvalidRegister
)

// Error is an error encountered while compiling or executing a BPF program.
type Error struct {
	// Code indicates the kind of error that occurred.
	Code int

	// PC is the program counter (index into the list of instructions) at
	// which the error occurred.
	PC int
}

func (e Error) codeString() string {
	switch e.Code {
	case DivisionByZero:
		return "division by zero"
	case InvalidEndOfProgram:
		return "last instruction must be a return"
	case InvalidInstructionCount:
		return "invalid number of instructions"
	case InvalidJumpTarget:
		return "jump target out of bounds"
	case InvalidLoad:
		return "load out of bounds"
	case InvalidOpcode:
		return "invalid instruction opcode"
	case InvalidRegister:
		return "invalid M register"
	default:
		return "unknown error"
	}
}

// Error implements error.Error.
func (e Error) Error() string {
	return fmt.Sprintf("at l%d: %s", e.PC, e.codeString())
}

// Program is a BPF program that has been validated for consistency.
type Program struct {
	instructions []linux.BPFInstruction
}

// Length returns the number of instructions in the program.
func (p Program) Length() int {
	return len(p.instructions)
}

// Instructions returns the program's raw instructions, suitable for
// installation via seccomp(2).
func (p Program) Instructions() []linux.BPFInstruction {
	return p.instructions
}

// Compile performs validation on a sequence of BPF instructions before
// wrapping them in a Program.
func Compile(insns []linux.BPFInstruction) (Program, error) {
	if len(insns) == 0 || len(insns) > MaxInstructions {
		return Program{}, Error{InvalidInstructionCount, len(insns)}
	}

	// The last instruction must be a return.
	if last := insns[len(insns)-1]; last.OpCode != Ret|K && last.OpCode != Ret|A {
		return Program{}, Error{InvalidEndOfProgram, len(insns) - 1}
	}

	// Validate each instruction. Jump offsets are checked so that execution
	// can never escape the program.
	for pc, i := range insns {
		switch i.OpCode & instructionClassMask {
		case Ld, Ldx:
			if (i.OpCode&loadModeMask == Mem) && i.K >= ScratchMemRegisters {
				return Program{}, Error{InvalidRegister, pc}
			}
		case St, Stx:
			if i.K >= ScratchMemRegisters {
				return Program{}, Error{InvalidRegister, pc}
			}
		case Alu:
			if op := i.OpCode & aluMask; op == Div|K || op == Mod|K {
				if i.K == 0 {
					return Program{}, Error{DivisionByZero, pc}
				}
			}
		case Jmp:
			if i.OpCode == Jmp|Ja {
				if pc+1+int(i.K) >= len(insns) {
					return Program{}, Error{InvalidJumpTarget, pc}
				}
			} else {
				if pc+1+int(i.JumpIfTrue) >= len(insns) || pc+1+int(i.JumpIfFalse) >= len(insns) {
					return Program{}, Error{InvalidJumpTarget, pc}
				}
			}
		case Ret, Misc:
			// Validated during execution.
		}
	}
	return Program{insns}, nil
}

// Input is the input data upon which a BPF program operates. For seccomp this
// is struct seccomp_data, in native (little) endianness.
type Input []byte

// machine is the state of the BPF virtual machine.
type machine struct {
	A uint32
	X uint32
	M [ScratchMemRegisters]uint32
}

const (
	instructionClassMask = 0x07
	loadModeMask         = 0xe0
	aluMask              = 0xf8
	jmpMask              = 0xf8
)

// Exec executes a BPF program over the given input and returns its return
// value.
func Exec(p Program, in Input) (uint32, error) {
	var m machine
	for pc := 0; pc < len(p.instructions); pc++ {
		i := p.instructions[pc]
		switch i.OpCode {
		case Ld | Imm | W:
			m.A = i.K
		case Ld | Abs | W:
			if uint64(i.K)+4 > uint64(len(in)) {
				return 0, Error{InvalidLoad, pc}
			}
			m.A = binary.LittleEndian.Uint32(in[i.K:])
		case Ld | Abs | H:
			if uint64(i.K)+2 > uint64(len(in)) {
				return 0, Error{InvalidLoad, pc}
			}
			m.A = uint32(binary.LittleEndian.Uint16(in[i.K:]))
		case Ld | Abs | B:
			if uint64(i.K) >= uint64(len(in)) {
				return 0, Error{InvalidLoad, pc}
			}
			m.A = uint32(in[i.K])
		case Ld | Len | W:
			m.A = uint32(len(in))
		case Ld | Mem | W:
			m.A = m.M[i.K]
		case Ldx | Imm | W:
			m.X = i.K
		case Ldx | Len | W:
			m.X = uint32(len(in))
		case Ldx | Mem | W:
			m.X = m.M[i.K]
		case St:
			m.M[i.K] = m.A
		case Stx:
			m.M[i.K] = m.X
		case Alu | Add | K:
			m.A += i.K
		case Alu | Add | X:
			m.A += m.X
		case Alu | Sub | K:
			m.A -= i.K
		case Alu | Sub | X:
			m.A -= m.X
		case Alu | Mul | K:
			m.A *= i.K
		case Alu | Mul | X:
			m.A *= m.X
		case Alu | Div | K:
			// K != 0 checked at compile time.
			m.A /= i.K
		case Alu | Div | X:
			if m.X == 0 {
				return 0, Error{DivisionByZero, pc}
			}
			m.A /= m.X
		case Alu | Or | K:
			m.A |= i.K
		case Alu | Or | X:
			m.A |= m.X
		case Alu | And | K:
			m.A &= i.K
		case Alu | And | X:
			m.A &= m.X
		case Alu | Lsh | K:
			m.A <<= i.K
		case Alu | Lsh | X:
			m.A <<= m.X
		case Alu | Rsh | K:
			m.A >>= i.K
		case Alu | Rsh | X:
			m.A >>= m.X
		case Alu | Neg:
			m.A = uint32(-int32(m.A))
		case Alu | Mod | K:
			// K != 0 checked at compile time.
			m.A %= i.K
		case Alu | Mod | X:
			if m.X == 0 {
				return 0, Error{DivisionByZero, pc}
			}
			m.A %= m.X
		case Alu | Xor | K:
			m.A ^= i.K
		case Alu | Xor | X:
			m.A ^= m.X
		case Jmp | Ja:
			pc += int(i.K)
		case Jmp | Jeq | K:
			pc += conditionalJumpOffset(i, m.A == i.K)
		case Jmp | Jeq | X:
			pc += conditionalJumpOffset(i, m.A == m.X)
		case Jmp | Jgt | K:
			pc += conditionalJumpOffset(i, m.A > i.K)
		case Jmp | Jgt | X:
			pc += conditionalJumpOffset(i, m.A > m.X)
		case Jmp | Jge | K:
			pc += conditionalJumpOffset(i, m.A >= i.K)
		case Jmp | Jge | X:
			pc += conditionalJumpOffset(i, m.A >= m.X)
		case Jmp | Jset | K:
			pc += conditionalJumpOffset(i, m.A&i.K != 0)
		case Jmp | Jset | X:
			pc += conditionalJumpOffset(i, m.A&m.X != 0)
		case Ret | K:
			return i.K, nil
		case Ret | A:
			return m.A, nil
		case Misc | Tax:
			m.X = m.A
		case Misc | Txa:
			m.A = m.X
		default:
			return 0, Error{InvalidOpcode, pc}
		}
	}
	// Unreachable: straight-line execution always ends in a return
	// instruction, checked at compile time.
	return 0, Error{InvalidEndOfProgram, len(p.instructions)}
}

func conditionalJumpOffset(insn linux.BPFInstruction, cond bool) int {
	if cond {
		return int(insn.JumpIfTrue)
	}
	return int(insn.JumpIfFalse)
}
