// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import "unsafe"

// ptrOf returns the address identity of a []byte's backing array, the
// same uintptr-of-slice-head idiom the teacher uses to get a
// first-class address out of an mmap.MMap (machine.go: "ts =
// uintptr(unsafe.Pointer(&tsMem[0]))").
func ptrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
