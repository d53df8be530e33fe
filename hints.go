// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import (
	"fmt"
	"strconv"
	"strings"
)

// Hint keys understood by ResolveHints, named exactly as the spec's
// richer schema (the "legacy" storage_alloc boolean + filename schema
// documented in original_source/mpi_swin_keys.h's predecessor is not
// implemented — treated as removed, per spec's Open Questions).
const (
	HintAllocType    = "alloc_type"
	HintFilename     = "storage_alloc_filename"
	HintOffset       = "storage_alloc_offset"
	HintFactor       = "storage_alloc_factor"
	HintOrder        = "storage_alloc_order"
	HintUnlink       = "storage_alloc_unlink"
	HintAccessStyle  = "access_style"
	HintFilePerm     = "file_perm"
	HintStripeFactor = "striping_factor"
	HintStripeUnit   = "striping_unit"
)

// OpenMode selects the POSIX open flags used for the backing file.
type OpenMode uint8

const (
	ReadWrite OpenMode = iota
	ReadOnly
	WriteOnly
)

// AccessAdvice is a platform-neutral access pattern hint. It is mapped
// to the native unix.MADV_* constant only inside the platform-specific
// mapping code (madviseFlag in mappedfile_unix.go; mappedfile_windows.go
// does not use it), so the hint resolver itself stays buildable on
// every GOOS.
type AccessAdvice uint8

const (
	AdviceNormal AccessAdvice = iota
	AdviceSequential
	AdviceRandom
)

// Placement is the resolved descriptor C2 hands to the allocation
// facade: everything C4/C1 need to decide RAM vs. storage and, for
// storage, how to build the MappedFile.
type Placement struct {
	Kind PlacementKind

	Filename string
	Offset   int64
	Factor   float64
	Order    SplitOrder
	Unlink   bool

	Mode         OpenMode
	AccessAdvice AccessAdvice
	FileMode     uint32

	StripeFactor int
	StripeUnit   int
}

// ResolveHints translates a hint bag (spec.md §6) into a Placement.
// Unknown keys are ignored; missing keys take the documented defaults.
func ResolveHints(hints map[string]string) (Placement, error) {
	p := Placement{
		Kind:         RAM,
		Factor:       1.0,
		Order:        RAMPrefix,
		Mode:         ReadWrite,
		AccessAdvice: AdviceNormal,
		FileMode:     0o600,
	}

	switch hints[HintAllocType] {
	case "", "memory":
		return p, nil
	case "storage":
		p.Kind = Storage
	default:
		return Placement{}, fmt.Errorf("%w: unknown %s %q", ErrHintMalformed, HintAllocType, hints[HintAllocType])
	}

	p.Filename = hints[HintFilename]
	if p.Filename == "" {
		return Placement{}, fmt.Errorf("%w: %s is required when %s=storage", ErrHintMalformed, HintFilename, HintAllocType)
	}

	if v, ok := hints[HintOffset]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %s: %v", ErrHintMalformed, HintOffset, err)
		}
		p.Offset = int64(n)
	}

	if v, ok := hints[HintFactor]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %s: %v", ErrHintMalformed, HintFactor, err)
		}
		if f < 0 || f > 1 {
			return Placement{}, fmt.Errorf("%w: %s must be in [0,1], got %v", ErrHintMalformed, HintFactor, f)
		}
		p.Factor = f
	}

	if v, ok := hints[HintOrder]; ok {
		switch v {
		case "0":
			p.Order = StoragePrefix
		case "1":
			p.Order = RAMPrefix
		default:
			return Placement{}, fmt.Errorf("%w: %s must be \"0\" or \"1\", got %q", ErrHintMalformed, HintOrder, v)
		}
	}

	if v, ok := hints[HintUnlink]; ok {
		p.Unlink = v == "true"
	}

	if v, ok := hints[HintAccessStyle]; ok {
		readOnce := strings.Contains(v, "read_once")
		writeOnce := strings.Contains(v, "write_once")
		sequential := strings.Contains(v, "sequential")
		random := strings.Contains(v, "random")

		switch {
		case readOnce:
			p.Mode = ReadOnly
		case writeOnce:
			p.Mode = WriteOnly
		default:
			p.Mode = ReadWrite
		}

		switch {
		case sequential:
			p.AccessAdvice = AdviceSequential
		case random:
			p.AccessAdvice = AdviceRandom
		default:
			p.AccessAdvice = AdviceNormal
		}
	}

	if v, ok := hints[HintFilePerm]; ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %s: %v", ErrHintMalformed, HintFilePerm, err)
		}
		p.FileMode = uint32(n)
	}

	if v, ok := hints[HintStripeFactor]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %s: %v", ErrHintMalformed, HintStripeFactor, err)
		}
		p.StripeFactor = n
	}

	if v, ok := hints[HintStripeUnit]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Placement{}, fmt.Errorf("%w: %s: %v", ErrHintMalformed, HintStripeUnit, err)
		}
		p.StripeUnit = n
	}

	return p, nil
}
