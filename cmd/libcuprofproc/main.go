// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command libcuprofproc builds the process-trace engine as a cgo
// c-shared object (spec.md §1 "Process-trace engine"): preloaded into
// an unmodified binary, it records the process's own wall-clock
// lifespan into a shared, lock-coordinated trace file (spec.md §4.5).
//
// Build with:
//
//	go build -buildmode=c-shared -o libcuprofproc.so ./cmd/libcuprofproc
package main

/*
extern void cuprofprocOnLoad();
extern void cuprofprocOnUnload();

__attribute__((constructor)) static void cuprofproc_ctor(void) { cuprofprocOnLoad(); }
__attribute__((destructor))  static void cuprofproc_dtor(void) { cuprofprocOnUnload(); }
*/
import "C"

import (
	"time"

	"github.com/d99kris/cpuusage/internal/config"
	"github.com/d99kris/cpuusage/internal/culog"
	"github.com/d99kris/cpuusage/internal/ptrace"
)

var (
	log      = culog.New()
	instance *ptrace.Engine
	loaded   bool
)

//export cuprofprocOnLoad
func cuprofprocOnLoad() {
	if !config.InjectedByLoader() {
		return
	}
	loaded = true
	instance = ptrace.Start(log, time.Now())
}

//export cuprofprocOnUnload
func cuprofprocOnUnload() {
	if !loaded || instance == nil {
		return
	}
	instance.Stop(time.Now())
}

func main() {}
