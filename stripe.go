// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

// StripeHint is the parallel-filesystem pre-allocation hook: given a
// file that does not yet exist, an opportunity to set its striping
// layout (stripe count, stripe size) before it is ever mapped.
//
// This is the Go re-expression of the original library's Lustre
// support, which shelled out to "lfs setstripe" (or, before that, the
// low-level llapi_file_open) and was disabled upstream after failing
// to compile on a Cray XC40 — see mpiwrappers.c's commented-out
// MPI_SWIN_LUSTRE block. Rather than reintroduce a concrete striping
// backend, the hook stays injectable: callers that need Lustre (or any
// other striped filesystem) support supply their own StripeHint.
type StripeHint func(filename string, factor, unit int) error

// DefaultStripeHint does nothing. It is the default used when a
// Library is not given a StripeHint.
func DefaultStripeHint(filename string, factor, unit int) error { return nil }
