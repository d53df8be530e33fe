// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import (
	"fmt"
	"os"
)

// Library is the process-scope context spec.md's DESIGN NOTES call
// for in place of the original's global mutable singletons: it owns
// the association registry and the host runtime it is wired against,
// and is the receiver for every entry point this package interposes
// on (Allocate/Free, WindowCreate/WindowAllocate, WindowAttach/
// WindowDetach, WindowSync).
type Library struct {
	rt     Runtime
	reg    *registry
	stripe StripeHint
}

// New creates a Library bound to the given host runtime. rt must not
// be nil. If stripe is nil, DefaultStripeHint is used.
func New(rt Runtime, stripe StripeHint) *Library {
	if stripe == nil {
		stripe = DefaultStripeHint
	}
	return &Library{rt: rt, reg: newRegistry(), stripe: stripe}
}

// Allocate implements the "allocate raw buffer" entry point (spec.md
// §4.3): resolve hints into a placement, build the RAM or Storage
// backing, and record it as unbound ownership in the registry.
func (l *Library) Allocate(size int, hints map[string]string) (*AllocationRecord, error) {
	p, err := ResolveHints(hints)
	if err != nil {
		return nil, err
	}

	var b backing
	if p.Kind == Storage {
		if _, err := os.Stat(p.Filename); err != nil {
			if err := l.stripe(p.Filename, p.StripeFactor, p.StripeUnit); err != nil {
				return nil, fmt.Errorf("storagewin: striping hint for %q: %w", p.Filename, err)
			}
		}
		mf, err := allocMappedFile(p.Filename, p.Offset, int64(size), p.Factor, p.Order, p.Unlink, p.Mode, p.AccessAdvice, p.FileMode)
		if err != nil {
			return nil, err
		}
		b = &storageBacking{file: mf}
	} else {
		buf, err := l.rt.AllocMem(size)
		if err != nil {
			return nil, fmt.Errorf("storagewin: alloc mem: %w", err)
		}
		b = &ramBacking{data: buf}
	}

	rec := &AllocationRecord{backing: b, releaseOnWindowDestroy: false}
	l.reg.insertPtr(rec)
	return rec, nil
}

// Free implements the "free raw buffer" entry point (spec.md §4.3):
// look up ptr with consume semantics and release its backing. Storage
// allocations are synced before being unmapped.
func (l *Library) Free(ptr uintptr) error {
	rec := l.reg.lookupByUserPtr(ptr, true)
	if rec == nil {
		return ErrBaseUnknown
	}
	if rec.Kind() == Storage {
		sb := rec.backing.(*storageBacking)
		if err := sb.file.Sync(); err != nil {
			return err
		}
		return sb.file.Free()
	}
	rb := rec.backing.(*ramBacking)
	return l.rt.FreeMem(rb.data)
}
