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

//go:build linux && amd64
// +build linux,amd64

package main

// The triggers live in faults_amd64.s. They must be assembly: the
// recovery paths depend on the exact frame layout and on faulting
// instructions the compiler would never emit.

// callNull calls through a zero function pointer. Recovery resumes at the
// instruction after the call with a zero result register.
func callNull()

// derefNull loads from a near-null address. Recovery unwinds one frame,
// so derefNull appears to return immediately.
func derefNull()

// trapStub is the int3-containing stub called by trapParent.
func trapStub()

// trapParent calls a stub containing int3. Recovery unwinds two frames,
// so trapParent itself appears to return.
func trapParent()

// illStub is the ud2-containing stub called by illParent.
func illStub()

// illParent calls a stub containing ud2. Same recovery shape as
// trapParent.
func illParent()
