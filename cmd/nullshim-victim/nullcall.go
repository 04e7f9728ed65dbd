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

// nullCall implements subcommands.Command for the "nullcall" command.
type nullCall struct{}

// Name implements subcommands.Command.Name.
func (*nullCall) Name() string {
	return "nullcall"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*nullCall) Synopsis() string {
	return "call through a zero function pointer"
}

// Usage implements subcommands.Command.Usage.
func (*nullCall) Usage() string {
	return `nullcall`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*nullCall) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*nullCall) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if err := shim.Arm(); err != nil {
		fmt.Println("arm failed:", err)
		return subcommands.ExitFailure
	}
	callNull()
	fmt.Println("recovered")
	return subcommands.ExitSuccess
}
