// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

// Heap size ceilings per platform class. Whatever the firmware reports,
// the bootloader never claims more heap than this: the booted OS and other
// firmware clients need the rest.
const (
	// HeapMaxSize32 caps the heap on platforms with 32-bit pointers.
	HeapMaxSize32 = uint64(64 * 1024 * 1024)

	// HeapMaxSize64 caps the heap everywhere else.
	HeapMaxSize64 = uint64(1 * 1024 * 1024 * 1024)
)

type Version struct {
	Version string
	GitHash string
}

// PlatformCaps describes the memory claiming behaviour of one platform
// class. It is selected once at startup by the platform package and
// threaded through the heap orchestrator; there is no build-tag branching
// on these values.
type PlatformCaps struct {
	// HeapMaxSize is the cap applied to the derived claim budget.
	HeapMaxSize uint64

	// StaticHeapBase and StaticHeapLen describe the fixed heap window
	// used when the firmware sets FlagForceClaim. Unused otherwise.
	StaticHeapBase uint64
	StaticHeapLen  uint64
}

type Config struct {
	Caps    PlatformCaps
	Version Version
}

var DefaultConfig = &Config{
	// Generic 64-bit IEEE1275 machine: dynamic claiming with the large
	// cap. Platform packages override Caps for anything more specific.
	Caps: PlatformCaps{
		HeapMaxSize: HeapMaxSize64,
	},

	Version: Version{
		Version: gitVersion,
		GitHash: gitHash,
	},
}
