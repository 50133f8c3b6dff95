// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ieee1275

import (
	"fmt"
	"strings"

	"github.com/u-root/ofwboot/pkg/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// ClaimedRange records one successful Claim call on a FakeClient.
type ClaimedRange struct {
	Addr   uint64
	Length uint64
}

// FakeClient is a scripted in-memory firmware used by tests and by the
// claimsim playback tool. Zero value is usable: empty memory map, no
// properties, all claims succeed.
type FakeClient struct {
	// Map is the memory map returned to VisitMemoryMap, in order.
	Map []Extent

	// Flags holds the quirk flags reported by TestFlag.
	Flags map[Flag]bool

	// Props maps node -> property name -> raw value.
	Props map[Phandle]map[string][]byte

	// IntProps maps node -> property name -> integer value.
	IntProps map[Phandle]map[string]uint32

	// Nodes maps device tree paths to handles for FindDevice.
	Nodes map[string]Phandle

	// Chosen is the handle returned by ChosenNode.
	Chosen Phandle

	// ClaimShouldFail, when non-nil, is consulted before every claim and
	// may veto it with an error.
	ClaimShouldFail func(addr, length uint64) error

	// Claims records every successful claim in call order.
	Claims []ClaimedRange

	// BootDev is the boot device specifier; empty means none recorded.
	BootDev string

	// DevTypes, Aliases, Canonical and Filenames script the device path
	// utilities, keyed by the input string.
	DevTypes  map[string]string
	Aliases   map[string]string
	Canonical map[string]string
	Filenames map[string]string

	// Millis is returned by Milliseconds and incremented per call so the
	// fake clock never stands still.
	Millis uint32

	// Exited flips to true when Exit is called.
	Exited bool
}

func (f *FakeClient) ChosenNode() Phandle {
	return f.Chosen
}

func (f *FakeClient) FindDevice(path string) (Phandle, error) {
	p, ok := f.Nodes[path]
	if !ok {
		return 0, fmt.Errorf("finddevice %s: no such node", path)
	}
	return p, nil
}

func (f *FakeClient) GetProperty(node Phandle, name string) ([]byte, bool) {
	props, ok := f.Props[node]
	if !ok {
		return nil, false
	}
	v, ok := props[name]
	return v, ok
}

func (f *FakeClient) GetIntegerProperty(node Phandle, name string, def uint32) uint32 {
	props, ok := f.IntProps[node]
	if !ok {
		return def
	}
	v, ok := props[name]
	if !ok {
		return def
	}
	return v
}

func (f *FakeClient) Claim(addr, length uint64) error {
	if f.ClaimShouldFail != nil {
		if err := f.ClaimShouldFail(addr, length); err != nil {
			return err
		}
	}
	log.Infof("FakeClient: claimed %#x bytes at %#x", length, addr)
	f.Claims = append(f.Claims, ClaimedRange{Addr: addr, Length: length})
	return nil
}

func (f *FakeClient) VisitMemoryMap(v ExtentVisitor) {
	for _, e := range f.Map {
		if !v(e) {
			return
		}
	}
}

func (f *FakeClient) TestFlag(flag Flag) bool {
	return f.Flags[flag]
}

func (f *FakeClient) Milliseconds() uint32 {
	f.Millis++
	return f.Millis
}

func (f *FakeClient) Exit() {
	f.Exited = true
}

func (f *FakeClient) BootDevice() (string, bool) {
	return f.BootDev, f.BootDev != ""
}

func (f *FakeClient) DeviceType(spec string) (string, bool) {
	t, ok := f.DevTypes[spec]
	return t, ok
}

func (f *FakeClient) AliasDevname(spec string) string {
	if a, ok := f.Aliases[spec]; ok {
		return a
	}
	return spec
}

func (f *FakeClient) CanonicaliseDevname(dev string) string {
	if c, ok := f.Canonical[dev]; ok {
		return c
	}
	return dev
}

func (f *FakeClient) Filename(spec string) (string, bool) {
	fn, ok := f.Filenames[spec]
	return fn, ok
}

// EncodeDevname mimics the firmware encoding: the specifier is prefixed
// with "ieee1275/" and commas in it are escaped, since the bootloader uses
// commas to separate partition suffixes.
func (f *FakeClient) EncodeDevname(spec string) string {
	return "ieee1275/" + strings.ReplaceAll(spec, ",", `\,`)
}
