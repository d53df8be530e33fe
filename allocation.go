// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

// PlacementKind is the kind of backing behind an AllocationRecord.
type PlacementKind uint8

const (
	RAM PlacementKind = iota
	Storage
)

func (k PlacementKind) String() string {
	if k == Storage {
		return "storage"
	}
	return "ram"
}

// backing is the tagged-variant payload of an AllocationRecord — the
// Go re-expression of the enum-tag-plus-void* the original C library
// uses (see DESIGN NOTES in spec.md §9: "the natural re-expression is
// a tagged variant"). ramBacking and storageBacking share the release
// contract but not the payload layout, so a type switch on backing
// (rather than a field access behind an if) keeps match sites
// exhaustive.
type backing interface {
	kind() PlacementKind
	ptr() uintptr
	sync() error
	release(rt Runtime) error
}

type ramBacking struct {
	data []byte
}

func (b *ramBacking) kind() PlacementKind { return RAM }
func (b *ramBacking) ptr() uintptr        { return ptrOf(b.data) }
func (b *ramBacking) sync() error         { return nil }
func (b *ramBacking) release(rt Runtime) error {
	return rt.FreeMem(b.data)
}

type storageBacking struct {
	file *MappedFile
}

func (b *storageBacking) kind() PlacementKind { return Storage }
func (b *storageBacking) ptr() uintptr        { return b.file.userAddr }
func (b *storageBacking) sync() error         { return b.file.Sync() }
func (b *storageBacking) release(rt Runtime) error {
	if err := b.file.Sync(); err != nil {
		return err
	}
	return b.file.Free()
}

// AllocationRecord is one record per user-visible allocation (spec.md
// §3). It is referenced from exactly one of the registry's allocation
// table ("unbound") or one window's attribute ("bound") at any time.
type AllocationRecord struct {
	backing backing

	// releaseOnWindowDestroy is true when the allocation was born
	// implicitly inside WindowAllocate (the library owns it end to
	// end), false when the user allocated it explicitly via Allocate
	// and may reuse it after the window goes away.
	releaseOnWindowDestroy bool
}

// Kind reports whether the allocation is RAM- or Storage-backed.
func (r *AllocationRecord) Kind() PlacementKind { return r.backing.kind() }

// Pointer returns the user-visible pointer identity used by the
// registry: the RAM buffer's address for RAM, or MappedFile.userAddr
// for Storage.
func (r *AllocationRecord) Pointer() uintptr { return r.backing.ptr() }

// Bytes returns a safe view of the allocation's memory.
func (r *AllocationRecord) Bytes() []byte {
	switch b := r.backing.(type) {
	case *ramBacking:
		return b.data
	case *storageBacking:
		return b.file.Bytes()
	default:
		return nil
	}
}
