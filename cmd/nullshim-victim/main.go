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

// Binary nullshim-victim deliberately commits each fault class the shim
// recovers from. Every subcommand arms the handlers in its own process,
// triggers exactly one fault, and prints "recovered" if execution
// continues. An unhandled fault kills the process with the original
// signal, so exit status alone distinguishes the outcomes.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(nullCall), "faults")
	subcommands.Register(new(nullDeref), "faults")
	subcommands.Register(new(trap), "faults")
	subcommands.Register(new(clone3), "syscalls")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
