// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package storagewin

import (
	"fmt"
	"os"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// allocMappedFile implements MappedFile::alloc (spec.md §4.1).
func allocMappedFile(filename string, offset, length int64, factor float64, order SplitOrder, unlink bool, mode OpenMode, advice AccessAdvice, perm uint32) (*MappedFile, error) {
	flags := os.O_CREATE
	switch mode {
	case ReadOnly:
		flags |= os.O_RDONLY
	case WriteOnly:
		flags |= os.O_WRONLY
	default:
		flags |= os.O_RDWR
	}

	existed := false
	if _, err := os.Stat(filename); err == nil {
		existed = true
	}

	f, err := os.OpenFile(filename, flags, os.FileMode(perm))
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrMappingFailed, filename, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %q: %v", ErrMappingFailed, filename, err)
	}

	alignedOffset := alignDown(offset)
	reqDelta := offset - alignedOffset

	var total int64
	if existed && length == 0 {
		alignedOffset = 0
		reqDelta = 0
		total = st.Size()
	} else {
		total = length + reqDelta
	}

	storageLen, ramLen := splitGeometry(total, factor, order)

	if need := alignedOffset + storageLen; need > st.Size() {
		if err := f.Truncate(need); err != nil {
			return nil, fmt.Errorf("%w: truncate %q to %d: %v", ErrMappingFailed, filename, need, err)
		}
	}

	prot := protFor(mode)

	base, err := reserve(total)
	if err != nil {
		return nil, err
	}

	var installErr error
	switch order {
	case StoragePrefix:
		if storageLen > 0 {
			installErr = installFile(base, f, alignedOffset, storageLen, prot)
		}
		if installErr == nil && ramLen > 0 {
			installErr = installAnon(base+uintptr(storageLen), ramLen, prot)
		}
	default: // RAMPrefix
		if ramLen > 0 {
			installErr = installAnon(base, ramLen, prot)
		}
		if installErr == nil && storageLen > 0 {
			installErr = installFile(base+uintptr(ramLen), f, alignedOffset, storageLen, prot)
		}
	}
	if installErr != nil {
		return nil, installErr
	}

	region := unsafe.Slice((*byte)(unsafe.Pointer(base)), int(total))

	mf := &MappedFile{
		filename:    filename,
		fileOffset:  alignedOffset,
		totalLength: total,
		userLength:  length,
		storageLen:  storageLen,
		ramLen:      ramLen,
		order:       order,
		baseAddr:    base,
		userAddr:    base + uintptr(reqDelta),
		unlink:      unlink,
		region:      region,
	}
	if existed && length == 0 {
		mf.userLength = total
	}

	if storageLen > 0 {
		if err := unix.Madvise(mf.storageRegion(), madviseFlag(advice)); err != nil {
			mf.Free() //nolint:errcheck // best-effort unwind, original error is the one that matters
			return nil, fmt.Errorf("%w: madvise %q: %v", ErrMappingFailed, filename, err)
		}
	}

	return mf, nil
}

// madviseFlag maps the platform-neutral AccessAdvice to the unix
// MADV_* constant it stands for.
func madviseFlag(advice AccessAdvice) int {
	switch advice {
	case AdviceSequential:
		return unix.MADV_SEQUENTIAL
	case AdviceRandom:
		return unix.MADV_RANDOM
	default:
		return unix.MADV_NORMAL
	}
}

func protFor(mode OpenMode) int {
	switch mode {
	case ReadOnly:
		return unix.PROT_READ
	case WriteOnly:
		return unix.PROT_WRITE
	default:
		// A safer default than the original library's PROT_EXEC
		// addition — see DESIGN.md's Open Question decisions.
		return unix.PROT_READ | unix.PROT_WRITE
	}
}

// reserve creates an anonymous mapping of length bytes at a
// kernel-chosen address, then immediately unmaps it. The returned
// address is a reservation token, not a live mapping — the only way to
// get a contiguous range whose sub-segments can be installed with
// distinct provenance without racing another mapper in this process.
func reserve(length int64) (uintptr, error) {
	m, err := mmap.MapRegion(nil, int(length), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: reserve %d bytes: %v", ErrMappingFailed, length, err)
	}
	addr := uintptr(unsafe.Pointer(&m[0]))
	if err := m.Unmap(); err != nil {
		return 0, fmt.Errorf("%w: unmap reservation: %v", ErrMappingFailed, err)
	}
	return addr, nil
}

// Sync implements MappedFile::sync: flush the whole file sub-range
// synchronously.
func (m *MappedFile) Sync() error {
	if m.storageLen == 0 {
		return nil
	}
	if err := unix.Msync(m.storageRegion(), unix.MS_SYNC); err != nil {
		return fmt.Errorf("%w: msync %q: %v", ErrMappingFailed, m.filename, err)
	}
	return nil
}

// SyncRange implements MappedFile::sync_range: flush
// [alignDown(offset), alignDown(offset)+length+delta) either
// synchronously or asynchronously.
func (m *MappedFile) SyncRange(offset, length int64, async bool) error {
	if m.storageLen == 0 {
		return nil
	}
	alignedOffset := alignDown(offset)
	length += offset - alignedOffset

	full := m.storageRegion()
	start := int(alignedOffset)
	end := start + int(length)
	if end > len(full) {
		end = len(full)
	}
	if start >= end {
		return nil
	}

	flags := unix.MS_SYNC
	if async {
		flags = unix.MS_ASYNC
	}
	if err := unix.Msync(full[start:end], flags); err != nil {
		return fmt.Errorf("%w: msync range %q: %v", ErrMappingFailed, m.filename, err)
	}
	return nil
}

// Free implements MappedFile::free: remove all permissions, unmap the
// whole region, and — if requested — delete the backing file.
func (m *MappedFile) Free() error {
	if err := unix.Mprotect(m.region, unix.PROT_NONE); err != nil {
		return fmt.Errorf("%w: mprotect none %q: %v", ErrMappingFailed, m.filename, err)
	}
	// unix.Munmap only accepts slices that unix.Mmap itself returned,
	// so the hand-assembled region is unmapped with the raw syscall.
	if _, _, errno := unix.Syscall(unix.SYS_MUNMAP, m.baseAddr, uintptr(m.totalLength), 0); errno != 0 {
		return fmt.Errorf("%w: munmap %q: %v", ErrMappingFailed, m.filename, errno)
	}
	if m.unlink {
		if err := os.Remove(m.filename); err != nil {
			return fmt.Errorf("%w: unlink %q: %v", ErrMappingFailed, m.filename, err)
		}
	}
	return nil
}
