// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

// Runtime is the host one-sided communication runtime this package
// interposes on. Its init/finalize, the collective window-creation
// barrier, parameter packing, remote transfers, and process ranks are
// out of scope for this package (spec.md §1) — Runtime names only the
// surface the window and allocation facades call through.
type Runtime interface {
	// AllocMem allocates size bytes using the runtime's native
	// allocator (the RAM placement).
	AllocMem(size int) ([]byte, error)
	// FreeMem returns a buffer obtained from AllocMem.
	FreeMem(buf []byte) error

	// CreateWindow creates a window over base, with the given
	// displacement unit, via the runtime's collective operation.
	CreateWindow(base []byte, dispUnit int) (Window, error)
	// Attach exposes base for remote access within an existing
	// dynamic window.
	Attach(w Window, base []byte) error
	// Detach removes base from an existing dynamic window.
	Detach(w Window, base []byte) error
	// SyncWindow performs the runtime's own window synchronization
	// (memory barrier / flush of pending one-sided operations).
	SyncWindow(w Window) error
}

// AttrKey is an opaque key minted by Window.NewKeyval.
type AttrKey int

// AttrCopyFunc is invoked when a window's attributes are copied (e.g.
// by a duplicating collective operation). This package's own copy
// callback always refuses (see window_facade.go).
type AttrCopyFunc func(old Window, key AttrKey, val interface{}) (interface{}, bool, error)

// AttrReleaseFunc is invoked when an attribute is deleted from a
// window, including as part of window destruction. This is the only
// deterministic point at which the library observes a window going
// away (spec.md §4.4's "Rationale").
type AttrReleaseFunc func(w Window, key AttrKey, val interface{}) error

// Window is a per-window attribute (keyval) store, the host runtime's
// mechanism for stashing an opaque record on a window (spec.md
// GLOSSARY: "Attribute / keyval").
type Window interface {
	// NewKeyval mints an attribute key with the given copy/release
	// callbacks.
	NewKeyval(copy AttrCopyFunc, release AttrReleaseFunc) (AttrKey, error)
	// SetAttr installs val as the value of key on this window.
	SetAttr(key AttrKey, val interface{}) error
	// GetAttr retrieves the value of key on this window, if any.
	GetAttr(key AttrKey) (val interface{}, ok bool, err error)
	// DeleteAttr removes key from this window, invoking its release
	// callback.
	DeleteAttr(key AttrKey) error
}
