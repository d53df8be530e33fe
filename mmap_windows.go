// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package storagewin

import (
	"fmt"
	"os"
)

// installFile and installAnon have no Windows implementation: a
// fixed-address hybrid mapping needs MapViewOfFileEx over a
// pre-reserved VirtualAlloc range, a different API than the POSIX
// MAP_FIXED install this package targets. Unlike the teacher's own
// Windows stub for the equivalent builtin (a bare panic("unreachable")
// in sys_mman_windows.go), a library returns an error instead of
// panicking.

func installFile(addr uintptr, f *os.File, offset, length int64, prot int) error {
	return fmt.Errorf("%w: hybrid storage-backed windows are not supported on this platform", ErrMappingFailed)
}

func installAnon(addr uintptr, length int64, prot int) error {
	return fmt.Errorf("%w: hybrid storage-backed windows are not supported on this platform", ErrMappingFailed)
}
