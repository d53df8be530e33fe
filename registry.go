// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import "sync"

// registryInitCap is the starting capacity of the registry's two
// tables, matching the original library's NUM_WINDOWS_INIT.
const registryInitCap = 64

// registry correlates three independently named entities — the
// returned base pointer, the window handle minted by the host
// runtime, and a per-window attribute key — across two growable,
// insertion-ordered tables. It is the Go re-expression of
// mpiwrappers_util.c's MAKE_STORE macro, reshaped into the
// mutex-guarded slice-of-live-handles pattern the teacher itself uses
// for Machine.Threads (machine.go) / Thread.Close (thread.go): a
// single-writer-by-design store that is cheap to make safe under a
// mutex (spec.md §5).
type registry struct {
	mu sync.Mutex

	// ptrs holds allocations not currently bound to any window
	// ("unbound" in spec.md §3's lifecycle).
	ptrs []*AllocationRecord

	// attrs holds, per bound allocation, the (window, key) pair that
	// was minted for it — the attribute-key table. The record itself
	// lives as the attribute's value inside the host runtime's window
	// (spec.md §3: "bound").
	attrs []attrEntry
}

type attrEntry struct {
	win Window
	key AttrKey
}

func newRegistry() *registry {
	r := &registry{}
	r.ptrs = make([]*AllocationRecord, 0, registryInitCap)
	r.attrs = make([]attrEntry, 0, registryInitCap)
	return r
}

// insertPtr appends rec to the allocation table.
func (r *registry) insertPtr(rec *AllocationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ptrs = append(r.ptrs, rec)
}

// insertKey appends (win, key) to the attribute-key table.
func (r *registry) insertKey(win Window, key AttrKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs = append(r.attrs, attrEntry{win, key})
}

// lookupByUserPtr scans the allocation table for the record whose
// user-visible pointer equals ptr. If consume is set, the entry is
// removed from the table on a hit.
func (r *registry) lookupByUserPtr(ptr uintptr, consume bool) *AllocationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.ptrs {
		if rec.Pointer() == ptr {
			if consume {
				r.deletePtrAt(i)
			}
			return rec
		}
	}
	return nil
}

// deletePtrAt removes r.ptrs[i], preserving the order of the rest.
// Callers must hold r.mu.
func (r *registry) deletePtrAt(i int) {
	copy(r.ptrs[i:], r.ptrs[i+1:])
	r.ptrs = r.ptrs[:len(r.ptrs)-1]
}

// deleteAttrAt removes r.attrs[i], preserving the order of the rest.
// Callers must hold r.mu.
func (r *registry) deleteAttrAt(i int) {
	copy(r.attrs[i:], r.attrs[i+1:])
	r.attrs = r.attrs[:len(r.attrs)-1]
}

// removeAttr deletes the (win, key) pair from the attribute-key
// table.
func (r *registry) removeAttr(win Window, key AttrKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.attrs {
		if e.win == win && e.key == key {
			r.deleteAttrAt(i)
			return
		}
	}
}

// lookupAttrByWindow scans the attribute-key table, asking the host
// runtime for each key's value on win, and returns the first record
// found. If consume is set, that attribute is removed from win
// (triggering its release callback) before returning.
func (r *registry) lookupAttrByWindow(win Window, consume bool) (*AllocationRecord, error) {
	r.mu.Lock()
	type candidate struct {
		key AttrKey
		rec *AllocationRecord
	}
	var found *candidate
	for _, e := range r.attrs {
		if e.win != win {
			continue
		}
		val, ok, err := win.GetAttr(e.key)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		if ok {
			found = &candidate{e.key, val.(*AllocationRecord)}
			break
		}
	}
	r.mu.Unlock()
	if found == nil {
		return nil, nil
	}
	if consume {
		if err := win.DeleteAttr(found.key); err != nil {
			return nil, err
		}
	}
	return found.rec, nil
}

// lookupKeyByWindowAndPtr scans the attribute-key table for the first
// key on win whose value's user-visible pointer equals ptr, returning
// both the key and the bound record.
func (r *registry) lookupKeyByWindowAndPtr(win Window, ptr uintptr) (AttrKey, *AllocationRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.attrs {
		if e.win != win {
			continue
		}
		val, ok, err := win.GetAttr(e.key)
		if err != nil {
			return 0, nil, false, err
		}
		if ok {
			if rec := val.(*AllocationRecord); rec.Pointer() == ptr {
				return e.key, rec, true, nil
			}
		}
	}
	return 0, nil, false, nil
}

// collectAllAttrsOnWindow scans the attribute-key table and returns
// every record currently bound to win.
func (r *registry) collectAllAttrsOnWindow(win Window) ([]*AllocationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*AllocationRecord
	for _, e := range r.attrs {
		if e.win != win {
			continue
		}
		val, ok, err := win.GetAttr(e.key)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, val.(*AllocationRecord))
		}
	}
	return out, nil
}
