// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package storagewin

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// installFile installs a file-backed sub-mapping at addr, replacing
// whatever reservation lives there. Neither mmap-go nor
// golang.org/x/sys/unix.Mmap exposes an explicit target address, so
// this drops to the same raw mmap(2) syscall the teacher's own
// sys_mman_linux.go builtin makes.
func installFile(addr uintptr, f *os.File, offset, length int64, prot int) error {
	flags := unix.MAP_FIXED | unix.MAP_SHARED | unix.MAP_NORESERVE
	r, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(length), uintptr(prot), uintptr(flags), f.Fd(), uintptr(offset))
	if errno != 0 {
		return fmt.Errorf("%w: mmap file sub-range at %#x: %v", ErrMappingFailed, addr, errno)
	}
	if r != addr {
		return fmt.Errorf("%w: mmap file sub-range installed at %#x, wanted %#x", ErrMappingFailed, r, addr)
	}
	return nil
}

// installAnon installs an anonymous sub-mapping at addr, replacing
// whatever reservation lives there.
func installAnon(addr uintptr, length int64, prot int) error {
	flags := unix.MAP_FIXED | unix.MAP_SHARED | unix.MAP_ANON | unix.MAP_NORESERVE
	r, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(length), uintptr(prot), uintptr(flags), ^uintptr(0), 0)
	if errno != 0 {
		return fmt.Errorf("%w: mmap anon sub-range at %#x: %v", ErrMappingFailed, addr, errno)
	}
	if r != addr {
		return fmt.Errorf("%w: mmap anon sub-range installed at %#x, wanted %#x", ErrMappingFailed, r, addr)
	}
	return nil
}
