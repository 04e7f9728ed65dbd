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

import "unsafe"

// SignalInfo is struct siginfo as delivered to an SA_SIGINFO handler
// (include/uapi/asm-generic/siginfo.h). The union after the three header
// words is left raw; accessors interpret the variants the shim needs.
type SignalInfo struct {
	Signo int32
	Errno int32
	Code  int32
	_     int32
	Fields [128 - 16]byte
}

// Addr returns the faulting address (si_addr), valid for SIGSEGV and SIGBUS.
//
//go:nosplit
func (s *SignalInfo) Addr() uintptr {
	return *(*uintptr)(unsafe.Pointer(&s.Fields[0]))
}
