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

package log

import (
	"strings"
	"testing"
	"time"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, &limitedError{}
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

type limitedError struct{}

func (*limitedError) Error() string {
	return "limited"
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := &Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if w.errors != 1 {
		t.Fatalf("expected 1 error, got %d", w.errors)
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	want := []string{"line 1\n", "line 2\n"}
	if len(tw.lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(tw.lines), len(want))
	}
	for i := range want {
		if tw.lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, tw.lines[i], want[i])
		}
	}
}

func TestLevels(t *testing.T) {
	tw := &testWriter{}
	logger := &BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}

	logger.Debugf("debug")
	logger.Infof("info")
	logger.Warningf("warning")

	if len(tw.lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(tw.lines), tw.lines)
	}
	if !strings.Contains(tw.lines[0], "info") {
		t.Errorf("first line %q should contain %q", tw.lines[0], "info")
	}
	if !strings.Contains(tw.lines[1], "warning") {
		t.Errorf("second line %q should contain %q", tw.lines[1], "warning")
	}
}

func TestRateLimited(t *testing.T) {
	tw := &testWriter{}
	logger := &BasicLogger{Level: Debug, Emitter: &Writer{Next: tw}}
	limited := RateLimited(logger, time.Hour)

	limited.Infof("first")
	limited.Infof("dropped")
	limited.Infof("dropped")

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(tw.lines), tw.lines)
	}
}
