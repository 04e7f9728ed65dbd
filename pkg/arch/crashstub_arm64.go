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

// IsCrashStub returns true if the instruction at the context's instruction
// pointer is one of the two encodings compilers emit for unreachable-code
// assertion stubs on arm64: brk #imm16 or udf #imm16.
//
//go:nosplit
func IsCrashStub(ctx Context) bool {
	var b [4]byte
	if !ctx.Bytes(ctx.IP(), b[:]) {
		return false
	}
	insn := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	// brk: 1101 0100 001x xxxx xxxx xxxx xxx0 0000
	if insn&0xffe0001f == 0xd4200000 {
		return true
	}
	// udf: 0000 0000 0000 0000 xxxx xxxx xxxx xxxx
	return insn&0xffff0000 == 0
}
