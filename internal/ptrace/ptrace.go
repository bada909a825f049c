// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ptrace implements the process-trace engine (spec.md §4.5):
// each participating process records its own wall-clock lifespan and
// appends a single "X" event to a shared, advisory-locked file, with
// exactly one process — the root, elected by a create-on-first-miss
// race over the output file — responsible for the header and trailer.
package ptrace

import (
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/d99kris/cpuusage/internal/config"
	"github.com/d99kris/cpuusage/internal/culog"
	"github.com/d99kris/cpuusage/internal/procinfo"
	"github.com/d99kris/cpuusage/internal/report"
)

// rootEnvVar is the environment marker exported to descendant
// processes so only the root emits the trailer (spec.md §4.5 step 3).
// The file-existence test remains authoritative for siblings that do
// not inherit this process's environment.
const rootEnvVar = "CU_IS_FIRST_PROCESS"

// Engine tracks one process's participation in a shared process-trace
// file across library load and unload.
type Engine struct {
	log      culog.Logger
	path     string
	expand   bool
	isRoot   bool
	beginTS  int64
}

// Start runs the library-load side of spec.md §4.5: resolve the report
// path, elect a root by probing file existence, and record begin_ts.
// now is injected for testability; production callers pass time.Now().
func Start(log culog.Logger, now time.Time) *Engine {
	cfg := config.LoadPTE()
	path := cfg.ReportPath
	if path == "" {
		path = config.DefaultReportPath(os.Getpid())
	}

	e := &Engine{log: log, path: path, expand: cfg.ExpandProcesses}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		e.isRoot = e.writeHeader(now)
	}

	os.Setenv(rootEnvVar, boolEnv(e.isRoot))
	e.beginTS = now.UnixMicro()
	return e
}

// writeHeader creates the report file and writes its header under the
// file lock. It reports whether this process won the lock, which makes
// it the root; a process that loses the lock to a concurrent creator
// is not root.
func (e *Engine) writeHeader(now time.Time) bool {
	fl := flock.New(e.path)
	locked, err := fl.TryLock()
	if err != nil || !locked {
		e.log.Errorf("cpuusage: unable to lock output path %q: %v", e.path, err)
		return false
	}
	defer fl.Unlock()

	f, err := os.Create(e.path)
	if err != nil {
		e.log.Errorf("cpuusage: unable to write to output path %q: %v", e.path, err)
		return true
	}
	defer f.Close()

	if err := report.WriteProcessHeader(f, now); err != nil {
		e.log.Errorf("cpuusage: failed writing trace header: %v", err)
	}
	return true
}

// Stop runs the library-unload side: capture end_ts, resolve the
// command line, append this process's event, and — if this process
// is root — close out the document (spec.md §4.5 steps 1-6).
func (e *Engine) Stop(now time.Time) {
	endTS := now.UnixMicro()
	isRoot := os.Getenv(rootEnvVar) == "1"
	cmd := procinfo.CommandLine(os.Getpid())

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		e.log.Errorf("cpuusage: unable to append to output path %q: %v", e.path, err)
		return
	}
	defer f.Close()

	fl := flock.New(e.path)
	if err := fl.Lock(); err != nil {
		e.log.Errorf("cpuusage: unable to lock output path %q: %v", e.path, err)
		return
	}
	defer fl.Unlock()

	tid := 0
	if e.expand {
		tid = os.Getpid()
	}

	ev := report.ProcessEvent{
		PID:  0,
		TID:  tid,
		TS:   e.beginTS,
		Dur:  endTS - e.beginTS,
		Name: cmd,
	}
	if err := report.WriteProcessEvent(f, ev); err != nil {
		e.log.Errorf("cpuusage: failed writing trace event: %v", err)
		return
	}

	if isRoot {
		if err := report.WriteProcessFooter(f); err != nil {
			e.log.Errorf("cpuusage: failed writing trace footer: %v", err)
		}
	} else if err := report.WriteProcessSeparator(f); err != nil {
		e.log.Errorf("cpuusage: failed writing trace separator: %v", err)
	}

	f.Sync()
}

func boolEnv(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
