// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ieee1275 defines the contract between the bootloader and an
// IEEE1275 (Open Firmware) client interface. The bootloader core only ever
// talks to firmware through the Client interface; the real binding lives in
// the per-platform entry stub, and tests use FakeClient.
package ieee1275

// Phandle is a handle to a device tree node, as returned by the firmware
// finddevice client call.
type Phandle uint32

// Flag identifies a firmware quirk detected during client-interface
// negotiation. The bootloader never probes these itself; the binding sets
// them from the firmware model it detects.
type Flag int

const (
	// FlagNoPre15MClaim is set on machines whose firmware keeps live
	// structures below 1.5 MiB even though that memory is listed as
	// available. Nothing below that boundary may be claimed.
	FlagNoPre15MClaim Flag = iota

	// FlagForceClaim is set on machines where walking the firmware memory
	// map is unreliable and the heap must come from one fixed window.
	FlagForceClaim
)

// MemoryKind tags a firmware-reported memory extent.
type MemoryKind int

const (
	KindAvailable MemoryKind = iota
	KindReserved
)

// String implements fmt.Stringer for MemoryKind.
func (k MemoryKind) String() string {
	switch k {
	case KindAvailable:
		return "available"
	case KindReserved:
		return "reserved"
	}
	return "unknown"
}

// Extent is one contiguous memory range from the firmware memory map.
// Extents arrive in firmware order, which is not guaranteed to be sorted.
type Extent struct {
	Base   uint64
	Length uint64
	Kind   MemoryKind
}

// ExtentVisitor is invoked once per extent by VisitMemoryMap. Returning
// false stops the iteration; remaining extents are not visited.
type ExtentVisitor func(e Extent) bool

// Client is the firmware client interface surface the bootloader consumes.
//
// All calls are synchronous and non-cancellable: once issued, a claim or
// property request runs to completion or failure. None of them may be
// retried by callers.
type Client interface {
	// ChosenNode returns the /chosen device tree node.
	ChosenNode() Phandle

	// FindDevice resolves a device tree path to a node handle.
	FindDevice(path string) (Phandle, error)

	// GetProperty reads a property of a node. The second return value is
	// false when the property does not exist.
	GetProperty(node Phandle, name string) ([]byte, bool)

	// GetIntegerProperty reads a 32-bit integer property, returning def
	// when the property is absent or unreadable.
	GetIntegerProperty(node Phandle, name string, def uint32) uint32

	// Claim reserves a physical memory range for exclusive use by the
	// bootloader. Claims are one-shot: a failed claim must not be retried
	// and claimed ranges are never released during boot.
	Claim(addr, length uint64) error

	// VisitMemoryMap invokes v for every extent of the firmware memory
	// map until the map is exhausted or v returns false. A failing
	// firmware call produces zero extents.
	VisitMemoryMap(v ExtentVisitor)

	// TestFlag reports whether a firmware quirk flag is set.
	TestFlag(f Flag) bool

	// Milliseconds returns the firmware elapsed-time counter.
	Milliseconds() uint32

	// Exit relinquishes control back to the firmware. It does not return.
	Exit()

	DevicePath
}

// DevicePath groups the firmware device path string utilities. Firmware
// paths use backslash as the in-filesystem separator and comma/colon
// suffixes for device arguments.
type DevicePath interface {
	// BootDevice returns the firmware boot device specifier from the
	// chosen node, if one was recorded.
	BootDevice() (string, bool)

	// DeviceType classifies a device specifier ("network", "block", ...).
	DeviceType(spec string) (string, bool)

	// AliasDevname returns the alias form of a device specifier.
	AliasDevname(spec string) string

	// CanonicaliseDevname returns the canonical firmware name for a
	// device, or "" when the firmware cannot canonicalise it.
	CanonicaliseDevname(dev string) string

	// Filename extracts the in-filesystem component of a specifier.
	Filename(spec string) (string, bool)

	// EncodeDevname converts a device specifier into the bootloader's
	// canonical device name form.
	EncodeDevname(spec string) string
}
