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

// Package fault classifies hardware faults and rewrites execution contexts
// so that a recognized class of faults resumes as if the faulting operation
// had returned zero.
//
// The recognized class is narrow: calls through still-zero function-pointer
// slots, dereferences of null or near-null pointers, and compiler-emitted
// unreachable-code assertion stubs. Everything else must terminate the
// process exactly as if this package were absent.
//
// All functions here may be called from a signal handler: they do not
// allocate, lock, or call into the runtime.
package fault

import (
	"nullshim.dev/nullshim/pkg/arch"
)

// NearNullLimit is the top of the reserved low address range. An instruction
// pointer or fault address below it is taken to be a null or near-null
// pointer (null plus a struct field or vtable offset) rather than a valid
// mapping, since the first 64K of address space is never mapped on any
// supported configuration.
const NearNullLimit = 0x10000

// Outcome is a classification decision.
type Outcome int

const (
	// Resume indicates the context was rewritten and the thread should
	// resume execution with it.
	Resume Outcome = iota

	// Default indicates the fault is outside the recognized class: the
	// caller must restore default fault handling and re-raise so the
	// process terminates and reports normally.
	Default
)

// HandleBadAccess classifies an invalid memory access fault. faultAddr is the
// address the faulting instruction touched (si_addr).
//
// Two patterns are recognized:
//
// Execution jumped to a near-null address (a call through a zero
// function-pointer slot). The callee never ran, so the return address is
// still the top word of the stack: resume there with the return value forced
// to zero, consuming the return-address slot.
//
// A valid instruction dereferenced a near-null address. Unwind one call
// frame through the frame-pointer chain, forcing the return value to zero,
// so the current function appears to have returned 0. If the frame pointer
// is not usable the top-of-stack word is used as a raw return address
// instead.
//
//go:nosplit
func HandleBadAccess(ctx arch.Context, faultAddr uintptr) Outcome {
	ip := ctx.IP()

	if ip < NearNullLimit {
		sp := ctx.SP()
		ret, ok := ctx.Word(sp)
		if !ok {
			return Default
		}
		ctx.SetRet(0)
		ctx.SetIP(ret)
		ctx.SetSP(sp + arch.WordSize)
		return Resume
	}

	if faultAddr < NearNullLimit {
		if fp := ctx.FP(); fp >= NearNullLimit {
			savedFP, ok1 := ctx.Word(fp)
			retAddr, ok2 := ctx.Word(fp + arch.WordSize)
			if ok1 && ok2 {
				ctx.SetRet(0)
				ctx.SetFP(savedFP)
				ctx.SetIP(retAddr)
				ctx.SetSP(fp + 2*arch.WordSize)
				return Resume
			}
		}
		// No usable frame: fall back to the raw stack top.
		sp := ctx.SP()
		ret, ok := ctx.Word(sp)
		if !ok {
			return Default
		}
		ctx.SetRet(0)
		ctx.SetIP(ret)
		ctx.SetSP(sp + arch.WordSize)
		return Resume
	}

	// The fault address is not near null: genuine corruption, not a zero
	// slot. Get out of the way.
	return Default
}

// HandleTrap classifies an illegal-instruction or debug trap. Only the
// recognized crash-stub encodings are handled; any other trap is left to
// default handling.
//
// The stub pushes its own frame before trapping, and its direct caller will
// typically retry the same path and trap again. Unwinding a single level
// therefore loops forever; the rewrite instead lands two levels up, in the
// caller's caller, with the return value forced to zero. When only a single
// valid frame is available a one-level unwind is used instead.
//
//go:nosplit
func HandleTrap(ctx arch.Context) Outcome {
	if !arch.IsCrashStub(ctx) {
		return Default
	}

	fp := ctx.FP()
	if fp < NearNullLimit {
		return Default
	}
	callerFP, ok := ctx.Word(fp)
	if !ok {
		return Default
	}

	if callerFP >= NearNullLimit {
		grandFP, ok1 := ctx.Word(callerFP)
		grandRet, ok2 := ctx.Word(callerFP + arch.WordSize)
		if ok1 && ok2 {
			ctx.SetRet(0)
			ctx.SetFP(grandFP)
			ctx.SetIP(grandRet)
			ctx.SetSP(callerFP + 2*arch.WordSize)
			return Resume
		}
	}

	// Single-frame fallback: return into the stub's direct caller.
	stubRet, ok := ctx.Word(fp + arch.WordSize)
	if !ok {
		return Default
	}
	ctx.SetRet(0)
	ctx.SetFP(callerFP)
	ctx.SetIP(stubRet)
	ctx.SetSP(fp + 2*arch.WordSize)
	return Resume
}
