// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

// WindowCreate delegates window creation to the host runtime, then —
// if base is known to the allocation table — binds it: mints an
// attribute key, installs it on the window carrying the
// AllocationRecord, and moves the record from the allocation table to
// the attribute-key table. Ported from mpiwrappers.c's MPI_Win_create
// + cacheWinAlloc.
func (l *Library) WindowCreate(base []byte, dispUnit int) (Window, error) {
	win, err := l.rt.CreateWindow(base, dispUnit)
	if err != nil {
		return nil, err
	}
	if err := l.bind(win, base); err != nil {
		return nil, err
	}
	return win, nil
}

// WindowAllocate composes Allocate and WindowCreate: allocate via the
// allocation facade, create the window over the result, then flip
// releaseOnWindowDestroy so the window's teardown releases the
// allocation without a separate Free call. Ported from
// mpiwrappers.c's MPI_Win_allocate.
func (l *Library) WindowAllocate(size int, hints map[string]string, dispUnit int) (Window, uintptr, error) {
	rec, err := l.Allocate(size, hints)
	if err != nil {
		return nil, 0, err
	}

	win, err := l.WindowCreate(rec.Bytes(), dispUnit)
	if err != nil {
		return nil, 0, err
	}

	bound, err := l.reg.lookupAttrByWindow(win, false)
	if err != nil {
		return nil, 0, err
	}
	if bound != nil {
		bound.releaseOnWindowDestroy = true
	}

	return win, rec.Pointer(), nil
}

// WindowAttach binds base to win the same way WindowCreate does, then
// delegates to the host runtime's attach. Ported from
// mpiwrappers.c's MPI_Win_attach.
func (l *Library) WindowAttach(win Window, base []byte) error {
	if err := l.bind(win, base); err != nil {
		return err
	}
	return l.rt.Attach(win, base)
}

// WindowDetach finds the attribute key for (win, ptr), deletes it
// (triggering the release callback, which returns the record to the
// allocation table), and delegates to the host runtime's detach.
// Ported from mpiwrappers.c's MPI_Win_detach + uncacheWinAlloc.
func (l *Library) WindowDetach(win Window, ptr uintptr) error {
	key, rec, ok, err := l.reg.lookupKeyByWindowAndPtr(win, ptr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBaseUnknown
	}
	base := rec.Bytes()

	if err := win.DeleteAttr(key); err != nil {
		return err
	}
	return l.rt.Detach(win, base)
}

// WindowSync delegates to the host runtime's sync, then flushes every
// Storage-kind allocation bound to win. A window carrying both RAM-
// and Storage-kind allocations returns ErrMixedPlacement: spec.md does
// not define a meaningful cross-placement sync in one call. Ported
// from mpiwrappers.c's MPI_Win_sync.
func (l *Library) WindowSync(win Window) error {
	if err := l.rt.SyncWindow(win); err != nil {
		return err
	}

	recs, err := l.reg.collectAllAttrsOnWindow(win)
	if err != nil {
		return err
	}

	var hasStorage, hasRAM bool
	for _, rec := range recs {
		if rec.Kind() == Storage {
			hasStorage = true
		} else {
			hasRAM = true
		}
	}
	if hasStorage && hasRAM {
		return ErrMixedPlacement
	}

	for _, rec := range recs {
		if rec.Kind() == Storage {
			if err := rec.backing.sync(); err != nil {
				return err
			}
		}
	}
	return nil
}

// bind is the shared binding step behind WindowCreate and
// WindowAttach: if base is a known, unbound allocation, mint an
// attribute key, install it on win, and move the record from the
// allocation table to the attribute-key table.
func (l *Library) bind(win Window, base []byte) error {
	if len(base) == 0 {
		return nil
	}
	ptr := ptrOf(base)
	rec := l.reg.lookupByUserPtr(ptr, true)
	if rec == nil {
		return nil
	}

	key, err := win.NewKeyval(l.copyAttr, l.releaseAttr)
	if err != nil {
		l.reg.insertPtr(rec) // undo the consuming lookup
		return err
	}
	if err := win.SetAttr(key, rec); err != nil {
		l.reg.insertPtr(rec)
		return err
	}
	l.reg.insertKey(win, key)
	return nil
}

// copyAttr is the attribute copy callback: always refused. Windows
// carrying library-owned allocations may not be cloned. Ported from
// mpiwrappers.c's MPI_Win_copy_attr.
func (l *Library) copyAttr(old Window, key AttrKey, val interface{}) (interface{}, bool, error) {
	return nil, false, ErrAttrCopyRefused
}

// releaseAttr is the attribute release callback — the load-bearing
// teardown hook, invoked by the host runtime when a window is
// destroyed or an attribute is explicitly removed. Ported from
// mpiwrappers.c's MPI_Win_release_attr / releaseWinAlloc.
func (l *Library) releaseAttr(win Window, key AttrKey, val interface{}) error {
	rec := val.(*AllocationRecord)

	if rec.releaseOnWindowDestroy {
		if err := rec.backing.release(l.rt); err != nil {
			return err
		}
	} else {
		l.reg.insertPtr(rec)
	}

	l.reg.removeAttr(win, key)
	return nil
}
