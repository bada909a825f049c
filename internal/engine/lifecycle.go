// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package engine

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/d99kris/cpuusage/internal/clock"
	"github.com/d99kris/cpuusage/internal/config"
)

// Activate runs spec.md §4.1's shared-library-load sequence: record
// mainThread as the main_thread_only reference, then either start
// tracing immediately or, when CU_MANUAL=1, install signal handlers and
// wait. In manual mode SIGUSR1 calls Start and SIGUSR2 calls
// Stop(time.Now()), which emits the report.
//
// Activate itself does not consult the loader-injection marker
// (spec.md §4.1 step 1) — callers that only want automatic activation
// when actually preloaded should guard the call with
// config.InjectedByLoader().
func (e *Engine) Activate(mainThread clock.ThreadID) {
	clock.SetMainThread(mainThread)

	cfg := config.LoadFTE()
	if !cfg.Manual {
		e.Start()
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				e.Start()
			case syscall.SIGUSR2:
				e.Stop(time.Now())
			}
		}
	}()
}

// Deactivate runs spec.md §4.1's shared-library-unload sequence: if the
// library was brought in by the loader, stop tracing and emit the
// report if a buffer is still held. injected should be the same value
// config.InjectedByLoader() returned when the library was loaded (the
// environment may have changed by unload time, e.g. under a
// re-exec'ing test harness).
func (e *Engine) Deactivate(injected bool) {
	if injected {
		e.Stop(time.Now())
	}
}
