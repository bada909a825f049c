// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import "os/exec"

func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}
