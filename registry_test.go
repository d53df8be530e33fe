// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import "testing"

type fakeWindow struct {
	attrs map[AttrKey]interface{}
	next  AttrKey
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{attrs: make(map[AttrKey]interface{})}
}

func (w *fakeWindow) NewKeyval(copy AttrCopyFunc, release AttrReleaseFunc) (AttrKey, error) {
	w.next++
	return w.next, nil
}

func (w *fakeWindow) SetAttr(key AttrKey, val interface{}) error {
	w.attrs[key] = val
	return nil
}

func (w *fakeWindow) GetAttr(key AttrKey) (interface{}, bool, error) {
	v, ok := w.attrs[key]
	return v, ok, nil
}

func (w *fakeWindow) DeleteAttr(key AttrKey) error {
	delete(w.attrs, key)
	return nil
}

func TestRegistryPtrRoundTrip(t *testing.T) {
	r := newRegistry()
	rec := &AllocationRecord{backing: &ramBacking{data: []byte{1, 2, 3}}}

	r.insertPtr(rec)

	got := r.lookupByUserPtr(rec.Pointer(), false)
	if got != rec {
		t.Fatalf("lookupByUserPtr(peek) = %v, want %v", got, rec)
	}

	got = r.lookupByUserPtr(rec.Pointer(), true)
	if got != rec {
		t.Fatalf("lookupByUserPtr(consume) = %v, want %v", got, rec)
	}

	if got := r.lookupByUserPtr(rec.Pointer(), false); got != nil {
		t.Fatalf("lookupByUserPtr after consume = %v, want nil", got)
	}
}

func TestRegistryAttrLifecycle(t *testing.T) {
	r := newRegistry()
	win := newFakeWindow()
	rec := &AllocationRecord{backing: &ramBacking{data: []byte{9, 9}}}

	key, _ := win.NewKeyval(nil, nil)
	win.SetAttr(key, rec)
	r.insertKey(win, key)

	found, err := r.lookupAttrByWindow(win, false)
	if err != nil {
		t.Fatalf("lookupAttrByWindow: %v", err)
	}
	if found != rec {
		t.Fatalf("lookupAttrByWindow = %v, want %v", found, rec)
	}

	gotKey, gotRec, ok, err := r.lookupKeyByWindowAndPtr(win, rec.Pointer())
	if err != nil || !ok {
		t.Fatalf("lookupKeyByWindowAndPtr: key=%v rec=%v ok=%v err=%v", gotKey, gotRec, ok, err)
	}
	if gotKey != key || gotRec != rec {
		t.Fatalf("lookupKeyByWindowAndPtr = (%v, %v), want (%v, %v)", gotKey, gotRec, key, rec)
	}

	r.removeAttr(win, key)
	if recs, err := r.collectAllAttrsOnWindow(win); err != nil || len(recs) != 0 {
		t.Fatalf("collectAllAttrsOnWindow after removeAttr = %v, %v, want empty", recs, err)
	}
}

func TestRegistryCollectAllAttrsOnWindow(t *testing.T) {
	r := newRegistry()
	win := newFakeWindow()

	recA := &AllocationRecord{backing: &ramBacking{data: []byte{1}}}
	recB := &AllocationRecord{backing: &ramBacking{data: []byte{2}}}

	keyA, _ := win.NewKeyval(nil, nil)
	win.SetAttr(keyA, recA)
	r.insertKey(win, keyA)

	keyB, _ := win.NewKeyval(nil, nil)
	win.SetAttr(keyB, recB)
	r.insertKey(win, keyB)

	recs, err := r.collectAllAttrsOnWindow(win)
	if err != nil {
		t.Fatalf("collectAllAttrsOnWindow: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("collectAllAttrsOnWindow returned %d records, want 2", len(recs))
	}
}
