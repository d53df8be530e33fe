// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	storagewin "github.com/sergiorg-hpc/go-storagewin"
	"github.com/sergiorg-hpc/go-storagewin/internal/memrt"
)

func storageHints(t *testing.T, factor, order string) map[string]string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "window.bin")
	h := map[string]string{
		storagewin.HintAllocType: "storage",
		storagewin.HintFilename:  path,
		storagewin.HintUnlink:    "true",
	}
	if factor != "" {
		h[storagewin.HintFactor] = factor
	}
	if order != "" {
		h[storagewin.HintOrder] = order
	}
	return h
}

// TestAllocateFreeStorage covers a pure-storage window: factor=1.0
// means the whole region is file-backed.
func TestAllocateFreeStorage(t *testing.T) {
	lib := storagewin.New(memrt.New(), nil)

	rec, err := lib.Allocate(4096, storageHints(t, "1.0", ""))
	require.NoError(t, err)
	require.Equal(t, storagewin.Storage, rec.Kind())
	require.Len(t, rec.Bytes(), 4096)

	require.NoError(t, lib.Free(rec.Pointer()))
	require.ErrorIs(t, lib.Free(rec.Pointer()), storagewin.ErrBaseUnknown)
}

// TestWindowAllocateHybridRAMPrefix covers a 50/50 hybrid allocation
// with the default RAMPrefix split order, bound implicitly to a
// window via WindowAllocate.
func TestWindowAllocateHybridRAMPrefix(t *testing.T) {
	rt := memrt.New()
	lib := storagewin.New(rt, nil)

	win, ptr, err := lib.WindowAllocate(8192, storageHints(t, "0.5", ""), 1)
	require.NoError(t, err)
	require.NotZero(t, ptr)

	require.NoError(t, lib.WindowSync(win))

	mw, ok := win.(*memrt.Window)
	require.True(t, ok)
	require.NoError(t, mw.Destroy())

	require.ErrorIs(t, lib.Free(ptr), storagewin.ErrBaseUnknown)
}

// TestWindowAllocateHybridStoragePrefix exercises the StoragePrefix
// split order end to end.
func TestWindowAllocateHybridStoragePrefix(t *testing.T) {
	rt := memrt.New()
	lib := storagewin.New(rt, nil)

	win, ptr, err := lib.WindowAllocate(8192, storageHints(t, "0.5", "0"), 1)
	require.NoError(t, err)
	require.NotZero(t, ptr)

	mw, ok := win.(*memrt.Window)
	require.True(t, ok)
	require.NoError(t, mw.Destroy())
}

// TestWindowAttachDetachUserOwned covers a user-owned allocation:
// Allocate, attach to a window, detach, then the caller is free to
// reuse the allocation via Free.
func TestWindowAttachDetachUserOwned(t *testing.T) {
	rt := memrt.New()
	lib := storagewin.New(rt, nil)

	rec, err := lib.Allocate(4096, nil) // nil hints => RAM
	require.NoError(t, err)
	require.Equal(t, storagewin.RAM, rec.Kind())

	win, err := rt.CreateWindow(nil, 1)
	require.NoError(t, err)

	require.NoError(t, lib.WindowAttach(win, rec.Bytes()))
	require.NoError(t, lib.WindowDetach(win, rec.Pointer()))

	// Still owned by the caller after detach — Free must succeed.
	require.NoError(t, lib.Free(rec.Pointer()))
}

// TestWindowAllocateReleasedByWindowTeardown covers the library-owned
// lifecycle: a WindowAllocate allocation is released when the window
// is torn down, without an explicit Free call, and a subsequent Free
// reports the pointer as unknown.
func TestWindowAllocateReleasedByWindowTeardown(t *testing.T) {
	rt := memrt.New()
	lib := storagewin.New(rt, nil)

	win, ptr, err := lib.WindowAllocate(4096, nil, 1)
	require.NoError(t, err)

	mw, ok := win.(*memrt.Window)
	require.True(t, ok)
	require.NoError(t, mw.Destroy())

	err = lib.Free(ptr)
	require.True(t, errors.Is(err, storagewin.ErrBaseUnknown))
}

// TestWindowSyncMixedPlacementRejected covers WindowSync's refusal to
// flush a window carrying both RAM- and Storage-kind allocations.
func TestWindowSyncMixedPlacementRejected(t *testing.T) {
	rt := memrt.New()
	lib := storagewin.New(rt, nil)

	win, err := rt.CreateWindow(nil, 1)
	require.NoError(t, err)

	ramRec, err := lib.Allocate(1024, nil)
	require.NoError(t, err)
	require.NoError(t, lib.WindowAttach(win, ramRec.Bytes()))

	storageRec, err := lib.Allocate(1024, storageHints(t, "1.0", ""))
	require.NoError(t, err)
	require.NoError(t, lib.WindowAttach(win, storageRec.Bytes()))

	err = lib.WindowSync(win)
	require.ErrorIs(t, err, storagewin.ErrMixedPlacement)
}
