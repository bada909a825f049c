// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command libcuprof builds the function-trace engine as a cgo
// c-shared object (spec.md §1 "Function-trace engine"): loaded into a
// target process via LD_PRELOAD-style injection, it hooks the
// compiler's instrumentation convention (spec.md §6 "Instrumentation
// hooks") and, on its own load/unload, drives internal/engine's
// lifecycle (spec.md §4.1).
//
// Build with:
//
//	go build -buildmode=c-shared -o libcuprof.so ./cmd/libcuprof
package main

/*
#include <pthread.h>

extern void cuprofOnLoad();
extern void cuprofOnUnload();
extern void cuprofLogEvent(unsigned long addr, int enter, unsigned long thread);

__attribute__((constructor)) static void cuprof_ctor(void) { cuprofOnLoad(); }
__attribute__((destructor))  static void cuprof_dtor(void) { cuprofOnUnload(); }

static unsigned long cuprof_self_thread(void) {
  return (unsigned long)pthread_self();
}

// __cyg_profile_func_enter/exit satisfy the compiler's
// -finstrument-functions convention (spec.md §6). They and every helper
// above must themselves stay outside instrumentation, which a plain C
// function in the cgo preamble automatically is: the host compiler only
// instruments the target's own translation units, never this library's.
void __cyg_profile_func_enter(void *fn, void *caller) {
  (void)caller;
  cuprofLogEvent((unsigned long)fn, 1, cuprof_self_thread());
}

void __cyg_profile_func_exit(void *fn, void *caller) {
  (void)caller;
  cuprofLogEvent((unsigned long)fn, 0, cuprof_self_thread());
}

// cuprof_start_event/cuprof_end_event are the explicit C-callable
// scope markers spec.md §6's "callable surface" names; they infer the
// instrumentation point from their own caller's return address, the Go
// equivalent of which (runtime.Caller) cannot observe a C call site.
void cuprof_start_event(void) {
  cuprofLogEvent((unsigned long)__builtin_return_address(0), 1, cuprof_self_thread());
}

void cuprof_end_event(void) {
  cuprofLogEvent((unsigned long)__builtin_return_address(0), 0, cuprof_self_thread());
}
*/
import "C"

import (
	"unsafe"

	"github.com/d99kris/cpuusage/internal/buffer"
	"github.com/d99kris/cpuusage/internal/clock"
	"github.com/d99kris/cpuusage/internal/config"
	"github.com/d99kris/cpuusage/internal/culog"
	"github.com/d99kris/cpuusage/internal/dlsym"
	"github.com/d99kris/cpuusage/internal/engine"
)

// eng is the single module-private engine instance for the life of
// this loaded shared object (spec.md §9 Design Notes: "never expose as
// a reusable library type").
var eng = engine.New(dlsym.Backend{}, culog.New())

// wasInjected records the loader-injection marker's state at load
// time, consulted again at unload per spec.md §4.1.
var wasInjected bool

func currentThread() clock.ThreadID {
	return clock.ThreadID(C.cuprof_self_thread())
}

//export cuprofOnLoad
func cuprofOnLoad() {
	wasInjected = config.InjectedByLoader()
	if !wasInjected {
		return
	}
	eng.Activate(currentThread())
}

//export cuprofOnUnload
func cuprofOnUnload() {
	eng.Deactivate(wasInjected)
}

//export cuprofLogEvent
func cuprofLogEvent(addr C.ulong, enter C.int, thread C.ulong) {
	kind := buffer.Enter
	if enter == 0 {
		kind = buffer.Exit
	}
	eng.LogEvent(uintptr(addr), kind, clock.ThreadID(thread))
}

//export cuprof_start_tracing
func cuprof_start_tracing() {
	eng.Start()
}

//export cuprof_stop_tracing
func cuprof_stop_tracing() {
	eng.Deactivate(true)
}

//export cuprof_start_event_sym
func cuprof_start_event_sym(sym unsafe.Pointer) {
	eng.LogEvent(uintptr(sym), buffer.Enter, currentThread())
}

//export cuprof_end_event_sym
func cuprof_end_event_sym(sym unsafe.Pointer) {
	eng.LogEvent(uintptr(sym), buffer.Exit, currentThread())
}

func main() {}
