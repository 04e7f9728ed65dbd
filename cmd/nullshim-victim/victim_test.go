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

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Each subcommand commits a real fault, so they run in child processes:
// a recovery bug kills the child with the original signal instead of
// failing an assertion. Opt in with NULLSHIM_INTEGRATION=1.

func buildVictim(t *testing.T) string {
	t.Helper()
	if os.Getenv("NULLSHIM_INTEGRATION") != "1" {
		t.Skip("set NULLSHIM_INTEGRATION=1 to run fault-injection tests")
	}
	bin := filepath.Join(t.TempDir(), "victim")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building victim: %v\n%s", err, out)
	}
	return bin
}

func TestFaultRecovery(t *testing.T) {
	bin := buildVictim(t)
	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{"nullcall", []string{"nullcall"}, "recovered"},
		{"nullderef", []string{"nullderef"}, "recovered"},
		{"trap", []string{"trap"}, "recovered"},
		{"ill", []string{"trap", "-ill"}, "recovered"},
		{"clone3", []string{"clone3"}, "clone3 rejected with ENOSYS"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := exec.Command(bin, tc.args...).CombinedOutput()
			if err != nil {
				t.Fatalf("victim %v: %v\n%s", tc.args, err, out)
			}
			if !strings.Contains(string(out), tc.want) {
				t.Errorf("victim %v output %q, want %q", tc.args, out, tc.want)
			}
		})
	}
}
