// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package spinlock

import (
	"sync"
	"testing"

	"github.com/maruel/ut"
)

func TestLockUnlock(t *testing.T) {
	t.Parallel()
	var f Flag
	f.Lock()
	f.Unlock()
	f.Lock()
	f.Unlock()
}

func TestConcurrentMutualExclusion(t *testing.T) {
	t.Parallel()
	var f Flag
	var counter int
	var wg sync.WaitGroup
	const goroutines = 64
	const increments = 1000
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				f.Lock()
				counter++
				f.Unlock()
			}
		}()
	}
	wg.Wait()
	ut.AssertEqual(t, goroutines*increments, counter)
}
