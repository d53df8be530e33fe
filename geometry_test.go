// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignDown(t *testing.T) {
	p := int64(pageSize)

	require.Equal(t, int64(0), alignDown(0))
	require.Equal(t, p, alignDown(p))
	require.Equal(t, p, alignDown(p+1))
	require.Equal(t, p, alignDown(2*p-1))
}

func TestSplitGeometryRAMPrefix(t *testing.T) {
	p := int64(pageSize)
	length := 4 * p

	storageLen, ramLen := splitGeometry(length, 0.5, RAMPrefix)

	require.Equal(t, length, storageLen+ramLen)
	require.Equal(t, int64(0), storageLen%p, "storage length must stay page-aligned for RAMPrefix")
	require.LessOrEqual(t, storageLen, length/2)
}

func TestSplitGeometryStoragePrefix(t *testing.T) {
	p := int64(pageSize)
	length := 4 * p

	storageLen, ramLen := splitGeometry(length, 0.5, StoragePrefix)

	require.Equal(t, length, storageLen+ramLen)
	require.Equal(t, int64(0), ramLen%p, "ram length must stay page-aligned for StoragePrefix")
	require.GreaterOrEqual(t, storageLen, length/2)
}

// TestSplitGeometryRoundingAsymmetry pins the deliberate asymmetry
// documented in DESIGN.md: StoragePrefix rounds the storage share up
// when factor*length does not land on a page boundary, RAMPrefix
// rounds it down. Both are legitimate readings of "the factor is a
// target, not a guarantee" and the spec instructs keeping the
// discrepancy rather than forcing one convention everywhere.
func TestSplitGeometryRoundingAsymmetry(t *testing.T) {
	p := int64(pageSize)
	length := 3*p + 1 // deliberately not a clean multiple

	storageRAMPrefix, _ := splitGeometry(length, 1.0/3.0, RAMPrefix)
	storageStoragePrefix, _ := splitGeometry(length, 1.0/3.0, StoragePrefix)

	require.LessOrEqual(t, storageRAMPrefix, storageStoragePrefix)
}

func TestSplitGeometryFullFactor(t *testing.T) {
	p := int64(pageSize)
	length := 4 * p

	storageLen, ramLen := splitGeometry(length, 1.0, RAMPrefix)
	require.Equal(t, length, storageLen)
	require.Equal(t, int64(0), ramLen)

	storageLen, ramLen = splitGeometry(length, 0.0, RAMPrefix)
	require.Equal(t, int64(0), storageLen)
	require.Equal(t, length, ramLen)
}

func TestMappedFileStorageStart(t *testing.T) {
	mf := &MappedFile{order: RAMPrefix, ramLen: 1024, storageLen: 2048}
	require.Equal(t, int64(1024), mf.storageStart())

	mf = &MappedFile{order: StoragePrefix, ramLen: 1024, storageLen: 2048}
	require.Equal(t, int64(0), mf.storageStart())
}
