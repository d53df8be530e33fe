// Copyright 2024 The go-storagewin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storagewin lets the memory region backing a one-sided
// communication window be placed on storage (a memory-mapped file),
// in RAM, or split between the two, and keeps remote reads/writes,
// synchronization, and teardown correct regardless of where the bytes
// actually live.
//
// The package does not implement a one-sided communication runtime
// itself (see Runtime); it interposes on a small set of runtime entry
// points (Allocate/Free, WindowCreate/WindowAllocate, WindowAttach/
// WindowDetach, WindowSync) and resolves a hint bag describing the
// desired placement into the backing that satisfies it.
package storagewin
