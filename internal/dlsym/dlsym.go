// Copyright 2015 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build cgo && (linux || darwin)

// Package dlsym implements the symbol.Backend spec.md §1/§9 treats as
// an external collaborator, via the dynamic linker's dladdr(3), the
// same lookup the original's cu_addr_to_symbol calls directly. This is
// the one package in this module that must be cgo: there is no pure-Go
// way to ask the dynamic linker which loaded symbol covers an
// arbitrary address.
package dlsym

/*
#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"
import "unsafe"

// Backend resolves addresses via dladdr. The zero value is ready to
// use.
type Backend struct{}

// Lookup implements symbol.Backend.
func (Backend) Lookup(addr uintptr) (name string, base uintptr, ok bool) {
	var info C.Dl_info
	if C.dladdr(unsafe.Pointer(addr), &info) == 0 || info.dli_sname == nil {
		return "", 0, false
	}
	return C.GoString(info.dli_sname), uintptr(unsafe.Pointer(info.dli_saddr)), true
}
