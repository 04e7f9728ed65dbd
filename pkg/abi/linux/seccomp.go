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

package linux

import "fmt"

// Seccomp constants, from include/uapi/linux/seccomp.h.
const (
	SECCOMP_SET_MODE_FILTER   = 1
	SECCOMP_GET_ACTION_AVAIL  = 2
	SECCOMP_FILTER_FLAG_TSYNC = 1
)

// BPFAction is a seccomp filter return value.
type BPFAction uint32

// Seccomp filter return values, from include/uapi/linux/seccomp.h.
const (
	SECCOMP_RET_KILL_PROCESS BPFAction = 0x80000000
	SECCOMP_RET_KILL_THREAD  BPFAction = 0x00000000
	SECCOMP_RET_TRAP         BPFAction = 0x00030000
	SECCOMP_RET_ERRNO        BPFAction = 0x00050000
	SECCOMP_RET_TRACE        BPFAction = 0x7ff00000
	SECCOMP_RET_ALLOW        BPFAction = 0x7fff0000
)

// SECCOMP_RET_ACTION_FULL masks the action out of a filter return value.
const SECCOMP_RET_ACTION_FULL = 0xffff0000

// SECCOMP_RET_DATA masks the data (e.g. the errno) out of a filter return
// value.
const SECCOMP_RET_DATA = 0x0000ffff

// WithReturnCode sets the lower 16 bits of the action, used by RET_ERRNO to
// carry the errno and by RET_TRAP/RET_TRACE to carry cookie data.
func (a BPFAction) WithReturnCode(code uint16) BPFAction {
	return BPFAction(uint32(a&SECCOMP_RET_ACTION_FULL) | uint32(code))
}

// Data returns the lower 16 bits of the action.
func (a BPFAction) Data() uint16 {
	return uint16(a & SECCOMP_RET_DATA)
}

// String implements fmt.Stringer.
func (a BPFAction) String() string {
	switch a & SECCOMP_RET_ACTION_FULL {
	case SECCOMP_RET_KILL_PROCESS:
		return "kill_process"
	case SECCOMP_RET_KILL_THREAD:
		return "kill_thread"
	case SECCOMP_RET_TRAP:
		return fmt.Sprintf("trap(%d)", a.Data())
	case SECCOMP_RET_ERRNO:
		return fmt.Sprintf("errno(%d)", a.Data())
	case SECCOMP_RET_TRACE:
		return fmt.Sprintf("trace(%d)", a.Data())
	case SECCOMP_RET_ALLOW:
		return "allow"
	}
	return fmt.Sprintf("invalid(%#x)", uint32(a))
}

// Audit architecture identifiers, from include/uapi/linux/audit.h.
const (
	AUDIT_ARCH_X86_64  = 0xc000003e
	AUDIT_ARCH_AARCH64 = 0xc00000b7
)

// SeccompDataOffsets are the offsets into struct seccomp_data that a filter
// may load from, from include/uapi/linux/seccomp.h.
const (
	SeccompDataOffsetNR   = 0
	SeccompDataOffsetArch = 4
	SeccompDataOffsetIPLo = 8
	SeccompDataOffsetIPHi = 12
	SeccompDataOffsetArgs = 16
)

// PR_SET_NO_NEW_PRIVS is required before installing a filter without
// CAP_SYS_ADMIN, from include/uapi/linux/prctl.h.
const PR_SET_NO_NEW_PRIVS = 38
