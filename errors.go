// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import "errors"

// Sentinel errors surfaced to callers. The package never logs and
// never retries: every internal call is checked, and on failure the
// error flows up unchanged (callers decide whether to continue).
var (
	// ErrHintMalformed is returned when the hint bag requests storage
	// placement without the required filename, or carries a hint value
	// that does not parse.
	ErrHintMalformed = errors.New("storagewin: malformed hint")

	// ErrMappingFailed wraps a failure to open, stat, truncate or
	// unlink the backing file, or a failure from the reservation, fixed
	// sub-mapping install, advice, msync, mprotect, or unmap syscalls.
	ErrMappingFailed = errors.New("storagewin: mapping failed")

	// ErrBaseUnknown is returned by Free or WindowDetach when the
	// given pointer is not present in the association registry. The
	// caller's buffer is left untouched.
	ErrBaseUnknown = errors.New("storagewin: base pointer unknown")

	// ErrMixedPlacement is returned by WindowSync when the window
	// carries both RAM-kind and Storage-kind allocations: the spec
	// does not define a meaningful cross-placement sync in one call.
	ErrMixedPlacement = errors.New("storagewin: window carries both RAM and storage allocations")

	// ErrAttrCopyRefused is the fixed response of the attribute copy
	// callback: a window carrying a library-owned allocation may not
	// be cloned.
	ErrAttrCopyRefused = errors.New("storagewin: window attribute copy not supported")
)
