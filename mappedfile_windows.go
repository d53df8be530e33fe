// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package storagewin

import "fmt"

// allocMappedFile has no Windows implementation: see mmap_windows.go.
func allocMappedFile(filename string, offset, length int64, factor float64, order SplitOrder, unlink bool, mode OpenMode, advice AccessAdvice, perm uint32) (*MappedFile, error) {
	return nil, fmt.Errorf("%w: storage-backed windows are not supported on this platform", ErrMappingFailed)
}

func (m *MappedFile) Sync() error                              { return nil }
func (m *MappedFile) SyncRange(offset, length int64, a bool) error { return nil }
func (m *MappedFile) Free() error                               { return nil }
