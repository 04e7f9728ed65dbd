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

// Package arch abstracts the saved register state delivered to a signal
// handler. All architecture dependence in the shim lives here: the native
// ucontext layouts, the register conventions (which register carries the
// return value, where the frame pointer lives), and the instruction
// encodings of compiler-emitted crash stubs.
package arch

// WordSize is the size in bytes of a machine word and of one stack slot.
const WordSize = 8

// Context is the mutable execution state of a faulting thread, as captured
// by the kernel at signal delivery. A fault handler may rewrite it; the
// kernel restores the (possibly modified) state when the handler returns.
//
// Implementations must be usable from a signal handler: no allocation, no
// locks.
type Context interface {
	// IP returns the instruction pointer.
	IP() uintptr

	// SetIP sets the instruction pointer.
	SetIP(v uintptr)

	// SP returns the stack pointer.
	SP() uintptr

	// SetSP sets the stack pointer.
	SetSP(v uintptr)

	// FP returns the frame pointer.
	FP() uintptr

	// SetFP sets the frame pointer.
	SetFP(v uintptr)

	// SetRet sets the register that carries a function's return value.
	SetRet(v uintptr)

	// Word reads the machine word at addr. It returns false if the address
	// cannot be read.
	Word(addr uintptr) (uintptr, bool)

	// SetWord writes the machine word at addr. It returns false if the
	// address cannot be written.
	SetWord(addr, v uintptr) bool

	// Bytes fills b with the raw bytes at addr, for inspecting instruction
	// encodings. It returns false if the range cannot be read.
	Bytes(addr uintptr, b []byte) bool
}
