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

// Package seccomp generates and installs the in-kernel companion to the
// libc-level syscall interception: a BPF filter that fails one call number
// with a designated errno and allows everything else.
//
// The libc interposer only sees calls routed through the syscall(3) wrapper;
// a library that issues the instruction inline bypasses it. A seccomp filter
// catches both. Installation is opt-in, since the filter cannot be removed
// for the lifetime of the process.
package seccomp

import (
	"fmt"

	"nullshim.dev/nullshim/pkg/abi/linux"
	"nullshim.dev/nullshim/pkg/bpf"
	"nullshim.dev/nullshim/pkg/log"
)

// BuildProgram returns a filter that fails call number nr with the given
// errno on the native architecture and allows every other call unmodified.
// Calls from a non-native (compat) architecture are allowed: their numbering
// differs and interfering there could only break an otherwise working path.
func BuildProgram(nr uint32, errno uint16) ([]linux.BPFInstruction, error) {
	b := bpf.NewProgramBuilder()
	b.AddStmt(bpf.Ld|bpf.Abs|bpf.W, linux.SeccompDataOffsetArch)
	b.AddJumpFalseLabel(bpf.Jmp|bpf.Jeq|bpf.K, nativeAuditArch, 0, "allow")
	b.AddStmt(bpf.Ld|bpf.Abs|bpf.W, linux.SeccompDataOffsetNR)
	b.AddJumpFalseLabel(bpf.Jmp|bpf.Jeq|bpf.K, nr, 0, "allow")
	b.AddStmt(bpf.Ret|bpf.K, uint32(linux.SECCOMP_RET_ERRNO.WithReturnCode(errno)))
	if err := b.AddLabel("allow"); err != nil {
		return nil, err
	}
	b.AddStmt(bpf.Ret|bpf.K, uint32(linux.SECCOMP_RET_ALLOW))
	return b.Instructions()
}

// Install builds, validates and installs the filter for call number nr.
func Install(nr uint32, errno uint16) error {
	instrs, err := BuildProgram(nr, errno)
	if err != nil {
		return fmt.Errorf("building filter: %w", err)
	}
	// Validation through the interpreter's compiler catches malformed
	// programs before the kernel sees them.
	if _, err := bpf.Compile(instrs); err != nil {
		return fmt.Errorf("validating filter: %w", err)
	}
	if err := SetFilter(instrs); err != nil {
		return fmt.Errorf("installing filter: %w", err)
	}
	log.Infof("seccomp filter installed: syscall %d => errno %d", nr, errno)
	return nil
}
