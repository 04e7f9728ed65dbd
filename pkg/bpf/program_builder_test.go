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

package bpf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"nullshim.dev/nullshim/pkg/abi/linux"
)

func TestProgramBuilderSimple(t *testing.T) {
	b := NewProgramBuilder()
	b.AddStmt(Ld|Abs|W, 10)
	b.AddJump(Jmp|Ja, 10, 0, 0)

	expected := []linux.BPFInstruction{
		Stmt(Ld|Abs|W, 10),
		Jump(Jmp|Ja, 10, 0, 0),
	}

	got, err := b.Instructions()
	if err != nil {
		t.Errorf("Instructions() failed unexpectedly: %v", err)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramBuilderLabels(t *testing.T) {
	b := NewProgramBuilder()
	b.AddJumpTrueLabel(Jmp|Jeq|K, 11, "label_1", 0)
	b.AddJumpFalseLabel(Jmp|Jeq|K, 12, 0, "label_2")
	if err := b.AddLabel("label_1"); err != nil {
		t.Errorf("AddLabel(label_1) failed: %v", err)
	}
	b.AddStmt(Ld|Abs|W, 1)
	if err := b.AddLabel("label_2"); err != nil {
		t.Errorf("AddLabel(label_2) failed: %v", err)
	}
	b.AddStmt(Ret|K, 0)

	expected := []linux.BPFInstruction{
		Jump(Jmp|Jeq|K, 11, 1, 0),
		Jump(Jmp|Jeq|K, 12, 0, 1),
		Stmt(Ld|Abs|W, 1),
		Stmt(Ret|K, 0),
	}

	got, err := b.Instructions()
	if err != nil {
		t.Errorf("Instructions() failed unexpectedly: %v", err)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramBuilderMissingLabel(t *testing.T) {
	b := NewProgramBuilder()
	b.AddJumpTrueLabel(Jmp|Jeq|K, 10, "label_1", 0)
	b.AddStmt(Ret|K, 0)
	if _, err := b.Instructions(); err == nil {
		t.Errorf("Instructions() should have failed: unresolved label")
	}
}

func TestProgramBuilderLabelAddedBack(t *testing.T) {
	b := NewProgramBuilder()
	if err := b.AddLabel("backwards"); err == nil {
		t.Errorf("AddLabel(backwards) should have failed: label not used yet")
	}
}

func TestProgramBuilderDoubleLabel(t *testing.T) {
	b := NewProgramBuilder()
	b.AddJumpTrueLabel(Jmp|Jeq|K, 10, "label_1", 0)
	if err := b.AddLabel("label_1"); err != nil {
		t.Errorf("AddLabel(label_1) failed: %v", err)
	}
	b.AddStmt(Ret|K, 0)
	if err := b.AddLabel("label_1"); err == nil {
		t.Errorf("AddLabel(label_1) second time should have failed")
	}
}
