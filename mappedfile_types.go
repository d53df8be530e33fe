// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

// SplitOrder selects which half of a hybrid region occupies the low
// addresses.
type SplitOrder uint8

const (
	// RAMPrefix puts the RAM-only bytes at low addresses and the
	// file-backed bytes at high addresses. This is the default.
	RAMPrefix SplitOrder = iota
	// StoragePrefix puts the file-backed bytes at low addresses and
	// the RAM-only bytes at high addresses.
	StoragePrefix
)

// MappedFile is the state of one hybrid mapping: a contiguous virtual
// region whose prefix or suffix is an anonymous RAM mapping and whose
// remainder is backed by a file.
type MappedFile struct {
	filename    string
	fileOffset  int64 // page-aligned offset into the file
	totalLength int64 // bytes of the virtual region
	userLength  int64 // bytes originally requested by the caller
	storageLen  int64
	ramLen      int64
	order       SplitOrder
	baseAddr    uintptr // aligned virtual address of the whole region
	userAddr    uintptr // unaligned address handed back to the caller
	unlink      bool

	region []byte // safe slice view over [baseAddr, baseAddr+totalLength)
}

// Bytes returns the user-visible view of the mapping: userLength bytes
// starting at userAddr.
func (m *MappedFile) Bytes() []byte {
	delta := int(m.userAddr - m.baseAddr)
	return m.region[delta : delta+int(m.userLength)]
}

// storageStart returns the byte offset, relative to baseAddr, where
// the file-backed sub-range begins.
func (m *MappedFile) storageStart() int64 {
	if m.order == StoragePrefix {
		return 0
	}
	return m.ramLen
}

func (m *MappedFile) storageRegion() []byte {
	start := m.storageStart()
	return m.region[start : start+m.storageLen]
}

// splitGeometry partitions length into (storageLength, ramLength)
// following spec.md §4.1's split-order-dependent rounding. The
// asymmetry this produces (StoragePrefix may round storage slightly
// up, RAMPrefix rounds it down) is intentional — see DESIGN.md.
func splitGeometry(length int64, factor float64, order SplitOrder) (storageLen, ramLen int64) {
	switch order {
	case StoragePrefix:
		ramLen = alignDown(length - int64(factor*float64(length)))
		storageLen = length - ramLen
	default: // RAMPrefix
		storageLen = alignDown(int64(factor * float64(length)))
		ramLen = length - storageLen
	}
	return storageLen, ramLen
}
