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

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package shim

import (
	"unsafe"

	"nullshim.dev/nullshim/pkg/abi/linux"
	"nullshim.dev/nullshim/pkg/arch"
	"nullshim.dev/nullshim/pkg/fault"
	"nullshim.dev/nullshim/pkg/sighandling"
)

// badAccessEntry is the assembly trampoline installed as the SIGSEGV
// sa_sigaction. It bridges the kernel's signal calling convention to
// badAccessHandler.
func badAccessEntry()

// trapEntry is the assembly trampoline installed for SIGTRAP and SIGILL.
func trapEntry()

// addrOfBadAccessEntry returns the entry address of badAccessEntry.
func addrOfBadAccessEntry() uintptr

// addrOfTrapEntry returns the entry address of trapEntry.
func addrOfTrapEntry() uintptr

// badAccessHandler runs on the faulting thread, which is not a Go thread.
// Nothing here may grow the stack, allocate, or otherwise enter the
// runtime.
//
//go:nosplit
func badAccessHandler(sig int32, info *linux.SignalInfo, ucRaw unsafe.Pointer) {
	uc := (*arch.UContext64)(ucRaw)
	if fault.HandleBadAccess(uc, info.Addr()) == fault.Resume {
		return
	}
	bail(linux.Signal(sig))
}

// trapHandler handles SIGTRAP and SIGILL from crash stubs.
//
//go:nosplit
func trapHandler(sig int32, info *linux.SignalInfo, ucRaw unsafe.Pointer) {
	uc := (*arch.UContext64)(ucRaw)
	if fault.HandleTrap(uc) == fault.Resume {
		return
	}
	bail(linux.Signal(sig))
}

// bail gives up on a fault outside the recognized class: disarm, restore
// the default disposition, and re-raise so the process terminates and
// reports exactly as if the shim were absent.
//
//go:nosplit
func bail(sig linux.Signal) {
	armed.Store(false)
	sighandling.RestoreDefault(sig)
	sighandling.Raise(sig)
}
