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
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"nullshim.dev/nullshim/pkg/shim"
)

// trap implements subcommands.Command for the "trap" command.
type trap struct {
	ill bool
}

// Name implements subcommands.Command.Name.
func (*trap) Name() string {
	return "trap"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*trap) Synopsis() string {
	return "execute a crash stub (int3, or ud2 with -ill)"
}

// Usage implements subcommands.Command.Usage.
func (*trap) Usage() string {
	return `trap [-ill]`
}

// SetFlags implements subcommands.Command.SetFlags.
func (t *trap) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&t.ill, "ill", false, "execute ud2 (SIGILL) instead of int3 (SIGTRAP)")
}

// Execute implements subcommands.Command.Execute.
func (t *trap) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if err := shim.Arm(); err != nil {
		fmt.Println("arm failed:", err)
		return subcommands.ExitFailure
	}
	if t.ill {
		illParent()
	} else {
		trapParent()
	}
	fmt.Println("recovered")
	return subcommands.ExitSuccess
}
