// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package storagewin

import "os"

// pageSize is the process-wide page size, read once and cached — the
// same lazily-initialized singleton the original library keeps
// (g_pagesize in mfile.c), re-expressed as a package-level value set by
// init instead of a "first caller pays" check.
var pageSize = os.Getpagesize()

// alignDown rounds n down to the nearest multiple of the page size.
func alignDown(n int64) int64 {
	p := int64(pageSize)
	return (n / p) * p
}
