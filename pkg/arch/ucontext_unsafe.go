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

//go:build amd64 || arm64
// +build amd64 arm64

package arch

import (
	"unsafe"
)

// minReadable is the lowest address the raw accessors will touch. Reads below
// it would fault inside the handler itself.
const minReadable = 0x1000

// Word implements Context.Word by dereferencing addr in the host address
// space. The caller has already established that addr came from the thread's
// own stack or frame chain; only the near-null page is rejected here.
//
//go:nosplit
func (uc *UContext64) Word(addr uintptr) (uintptr, bool) {
	if addr < minReadable || addr%unsafe.Alignof(uintptr(0)) != 0 {
		return 0, false
	}
	return *(*uintptr)(unsafe.Pointer(addr)), true
}

// SetWord implements Context.SetWord.
//
//go:nosplit
func (uc *UContext64) SetWord(addr, v uintptr) bool {
	if addr < minReadable || addr%unsafe.Alignof(uintptr(0)) != 0 {
		return false
	}
	*(*uintptr)(unsafe.Pointer(addr)) = v
	return true
}

// Bytes implements Context.Bytes.
//
//go:nosplit
func (uc *UContext64) Bytes(addr uintptr, b []byte) bool {
	if addr < minReadable {
		return false
	}
	for i := range b {
		b[i] = *(*byte)(unsafe.Pointer(addr + uintptr(i)))
	}
	return true
}
