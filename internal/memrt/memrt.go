// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memrt is a minimal in-memory stand-in for a one-sided
// communication runtime (storagewin.Runtime/storagewin.Window),
// used only by this module's own tests to drive the window and
// allocation facades end to end without a real MPI installation —
// the same "hand-built fixture instead of a mocking framework" style
// the teacher uses in all_test.go (newMachine(nil, ...)).
package memrt

import (
	"fmt"
	"sync"

	"github.com/sergiorg-hpc/go-storagewin"
)

// Runtime implements storagewin.Runtime over plain Go slices and an
// in-process attribute store. There is no collective barrier, no
// ranks, and no remote transfer — single-process use only.
type Runtime struct{}

// New returns a fresh in-memory Runtime.
func New() *Runtime { return &Runtime{} }

func (r *Runtime) AllocMem(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (r *Runtime) FreeMem(buf []byte) error { return nil }

func (r *Runtime) CreateWindow(base []byte, dispUnit int) (storagewin.Window, error) {
	return newWindow(), nil
}

func (r *Runtime) Attach(w storagewin.Window, base []byte) error { return nil }
func (r *Runtime) Detach(w storagewin.Window, base []byte) error { return nil }
func (r *Runtime) SyncWindow(w storagewin.Window) error          { return nil }

type keyvalInfo struct {
	copy    storagewin.AttrCopyFunc
	release storagewin.AttrReleaseFunc
}

// Window implements storagewin.Window as an in-process attribute
// table keyed by a monotonically increasing AttrKey.
type Window struct {
	mu      sync.Mutex
	nextKey storagewin.AttrKey
	keyvals map[storagewin.AttrKey]keyvalInfo
	values  map[storagewin.AttrKey]interface{}
}

func newWindow() *Window {
	return &Window{
		keyvals: make(map[storagewin.AttrKey]keyvalInfo),
		values:  make(map[storagewin.AttrKey]interface{}),
	}
}

func (w *Window) NewKeyval(copy storagewin.AttrCopyFunc, release storagewin.AttrReleaseFunc) (storagewin.AttrKey, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextKey++
	key := w.nextKey
	w.keyvals[key] = keyvalInfo{copy, release}
	return key, nil
}

func (w *Window) SetAttr(key storagewin.AttrKey, val interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.keyvals[key]; !ok {
		return fmt.Errorf("memrt: unknown keyval %d", key)
	}
	w.values[key] = val
	return nil
}

func (w *Window) GetAttr(key storagewin.AttrKey) (interface{}, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	val, ok := w.values[key]
	return val, ok, nil
}

func (w *Window) DeleteAttr(key storagewin.AttrKey) error {
	w.mu.Lock()
	info, hasKeyval := w.keyvals[key]
	val, hasVal := w.values[key]
	delete(w.values, key)
	delete(w.keyvals, key)
	w.mu.Unlock()

	if hasKeyval && hasVal {
		return info.release(w, key, val)
	}
	return nil
}

// Destroy simulates the host runtime's collective window-free: every
// remaining attribute is deleted (invoking its release callback),
// mirroring real MPI_Win_free semantics.
func (w *Window) Destroy() error {
	w.mu.Lock()
	keys := make([]storagewin.AttrKey, 0, len(w.values))
	for k := range w.values {
		keys = append(keys, k)
	}
	w.mu.Unlock()

	for _, k := range keys {
		if err := w.DeleteAttr(k); err != nil {
			return err
		}
	}
	return nil
}
