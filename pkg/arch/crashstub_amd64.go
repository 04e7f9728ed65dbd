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

// IsCrashStub returns true if the instruction at the context's instruction
// pointer is one of the two encodings compilers emit for unreachable-code
// assertion stubs on x86-64: int3 (0xCC) or ud2 (0x0F 0x0B).
//
// int3 is recognized from its first byte alone: the stub may end the
// mapping, so the byte after it is not required to be readable.
//
//go:nosplit
func IsCrashStub(ctx Context) bool {
	var insn [2]byte
	if !ctx.Bytes(ctx.IP(), insn[:1]) {
		return false
	}
	if insn[0] == 0xcc {
		return true
	}
	if insn[0] != 0x0f {
		return false
	}
	if !ctx.Bytes(ctx.IP()+1, insn[1:]) {
		return false
	}
	return insn[1] == 0x0b
}
