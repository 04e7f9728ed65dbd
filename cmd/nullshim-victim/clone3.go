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
	"golang.org/x/sys/unix"
	"nullshim.dev/nullshim/pkg/seccomp"
)

// clone3 implements subcommands.Command for the "clone3" command. It
// installs the clone3 filter and then invokes clone3 directly, below any
// libc wrapper, to verify the kernel-level interception path.
type clone3 struct{}

// Name implements subcommands.Command.Name.
func (*clone3) Name() string {
	return "clone3"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*clone3) Synopsis() string {
	return "invoke clone3 under the seccomp filter and report the errno"
}

// Usage implements subcommands.Command.Usage.
func (*clone3) Usage() string {
	return `clone3`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*clone3) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*clone3) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if err := seccomp.Install(unix.SYS_CLONE3, uint16(unix.ENOSYS)); err != nil {
		fmt.Println("install failed:", err)
		return subcommands.ExitFailure
	}
	// A null args struct would fail with EFAULT if the call reached the
	// kernel's clone3 at all.
	_, _, errno := unix.RawSyscall(unix.SYS_CLONE3, 0, 0, 0)
	if errno != unix.ENOSYS {
		fmt.Println("unexpected errno:", errno)
		return subcommands.ExitFailure
	}
	fmt.Println("clone3 rejected with ENOSYS")
	return subcommands.ExitSuccess
}
