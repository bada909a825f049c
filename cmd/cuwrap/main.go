// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command cuwrap is the supplementary external wrapper spec.md §1
// sketches as an out-of-scope collaborator (SPEC_FULL.md §8/§10): it
// sets the CU_* environment variables from flags, arranges for the
// chosen engine's shared object to be preloaded, and execs the target.
// It uses github.com/maruel/subcommands, the same CLI framework the
// teacher's own client/cmd/isolate package builds its "archive" and
// "check" subcommands on.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/maruel/subcommands"
)

var application = &subcommands.DefaultApplication{
	Name:  "cuwrap",
	Title: "launches a target process under the cuprof function- or process-trace engine",
	Commands: []*subcommands.Command{
		cmdRun,
		cmdManualStart,
		cmdManualStop,
		subcommands.CmdHelp,
	},
}

func main() {
	os.Exit(subcommands.Run(application, nil))
}

var cmdRun = &subcommands.Command{
	UsageLine: "run [options] -- <target> [args...]",
	ShortDesc: "preloads a cuprof engine and execs the target",
	LongDesc:  "Sets CU_* environment variables from flags, preloads libcuprof.so (or libcuprofproc.so with -process), and execs the target binary in place of this process.",
	CommandRun: func() subcommands.CommandRun {
		c := &runRun{}
		c.Flags.Int64Var(&c.maxSamples, "max-samples", 0, "overrides CU_MAX_SAMPLES (default 1000000)")
		c.Flags.Int64Var(&c.minTime, "min-time", 0, "overrides CU_MIN_TIME in microseconds")
		c.Flags.BoolVar(&c.mainThreadOnly, "main-thread-only", false, "sets CU_MAIN_THREAD_ONLY=1")
		c.Flags.BoolVar(&c.manual, "manual", false, "sets CU_MANUAL=1; start/stop via cuwrap manual-start/manual-stop")
		c.Flags.BoolVar(&c.expand, "expand-processes", false, "sets CU_EXPAND_PROCESSES=1 (process-trace engine only)")
		c.Flags.StringVar(&c.file, "file", "", "overrides CU_FILE")
		c.Flags.BoolVar(&c.process, "process", false, "preload libcuprofproc.so instead of libcuprof.so")
		c.Flags.StringVar(&c.libDir, "lib-dir", ".", "directory containing the built libcuprof*.so")
		return c
	},
}

type runRun struct {
	subcommands.CommandRunBase
	maxSamples     int64
	minTime        int64
	mainThreadOnly bool
	manual         bool
	expand         bool
	file           string
	process        bool
	libDir         string
}

func (c *runRun) env() []string {
	env := os.Environ()
	set := func(k, v string) {
		for i, e := range env {
			if strings.HasPrefix(e, k+"=") {
				env = append(env[:i], env[i+1:]...)
				break
			}
		}
		env = append(env, k+"="+v)
	}

	if c.maxSamples > 0 {
		set("CU_MAX_SAMPLES", strconv.FormatInt(c.maxSamples, 10))
	}
	if c.minTime > 0 {
		set("CU_MIN_TIME", strconv.FormatInt(c.minTime, 10))
	}
	if c.mainThreadOnly {
		set("CU_MAIN_THREAD_ONLY", "1")
	}
	if c.manual {
		set("CU_MANUAL", "1")
	}
	if c.expand {
		set("CU_EXPAND_PROCESSES", "1")
	}
	if c.file != "" {
		set("CU_FILE", c.file)
	}

	lib := c.libDir + "/libcuprof.so"
	if c.process {
		lib = c.libDir + "/libcuprofproc.so"
	}
	set("LD_PRELOAD", lib)

	return env
}

func (c *runRun) Run(a subcommands.Application, args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(a.GetErr(), "%s: a target command is required after --\n", a.GetName())
		return 1
	}

	target, err := lookPath(args[0])
	if err != nil {
		fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
		return 1
	}

	if err := syscall.Exec(target, args, c.env()); err != nil {
		fmt.Fprintf(a.GetErr(), "%s: exec %s: %s\n", a.GetName(), target, err)
		return 1
	}
	return 0
}

var cmdManualStart = &subcommands.Command{
	UsageLine: "manual-start <pid>",
	ShortDesc: "signals a CU_MANUAL=1 target to start tracing",
	CommandRun: func() subcommands.CommandRun { return &signalRun{sig: syscall.SIGUSR1} },
}

var cmdManualStop = &subcommands.Command{
	UsageLine: "manual-stop <pid>",
	ShortDesc: "signals a CU_MANUAL=1 target to stop tracing and emit its report",
	CommandRun: func() subcommands.CommandRun { return &signalRun{sig: syscall.SIGUSR2} },
}

type signalRun struct {
	subcommands.CommandRunBase
	sig syscall.Signal
}

func (c *signalRun) Run(a subcommands.Application, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(a.GetErr(), "%s: exactly one <pid> argument is required\n", a.GetName())
		return 1
	}
	pid, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(a.GetErr(), "%s: invalid pid %q: %s\n", a.GetName(), args[0], err)
		return 1
	}
	if err := syscall.Kill(pid, c.sig); err != nil {
		fmt.Fprintf(a.GetErr(), "%s: signal %d: %s\n", a.GetName(), pid, err)
		return 1
	}
	return 0
}
