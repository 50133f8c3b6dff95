// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package machine

import (
	"errors"
	"testing"

	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/ieee1275"
)

type fakeConsole struct {
	events *[]string
}

func (c *fakeConsole) InitEarly()  { *c.events = append(*c.events, "console-early") }
func (c *fakeConsole) InitLately() { *c.events = append(*c.events, "console-late") }
func (c *fakeConsole) Fini()       { *c.events = append(*c.events, "console-fini") }

type fakeDisk struct {
	events  *[]string
	initErr error
}

func (d *fakeDisk) Init() error {
	*d.events = append(*d.events, "disk-init")
	return d.initErr
}
func (d *fakeDisk) Fini() { *d.events = append(*d.events, "disk-fini") }

type fakePlatform struct{}

func (p *fakePlatform) Caps() config.PlatformCaps {
	return config.PlatformCaps{HeapMaxSize: config.HeapMaxSize64}
}

func (p *fakePlatform) TimeSource(fw ieee1275.Client) TimeSource {
	return FirmwareTimeSource(fw)
}

func bootableFake() *ieee1275.FakeClient {
	return &ieee1275.FakeClient{
		Chosen: 7,
		Map: []ieee1275.Extent{
			{Base: 0x100_0000, Length: 0x400_0000, Kind: ieee1275.KindAvailable},
		},
		Props: map[ieee1275.Phandle]map[string][]byte{
			7: {"bootargs": []byte("console=ofw;debug=1")},
		},
		Nodes: map[string]ieee1275.Phandle{"/": 1},
		IntProps: map[ieee1275.Phandle]map[string]uint32{
			1: {"ibm,secure-boot": 2},
		},
	}
}

func TestInitSequence(t *testing.T) {
	var events []string
	fw := bootableFake()
	m := New(fw, &fakePlatform{}, &fakeConsole{&events}, &fakeDisk{events: &events}, 0x4000, 0x8000)

	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	want := []string{"console-early", "console-late", "disk-init"}
	if len(events) != len(want) {
		t.Fatalf("got events %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("got events %v, want %v", events, want)
		}
	}

	if len(fw.Claims) == 0 {
		t.Error("Init claimed no heap")
	}
	if m.Registry.Total() == 0 {
		t.Error("Init registered no heap with the allocator")
	}
	if v, _ := m.Env.Get("console"); v != "ofw" {
		t.Errorf("bootargs not imported: console = %q", v)
	}
	if v, _ := m.Env.Get("check_appended_signatures"); v != "forced" {
		t.Error("secure-boot enforcement not applied")
	}
	if m.Now() == 0 {
		t.Error("no time source installed")
	}
}

func TestInitDiskFailureAborts(t *testing.T) {
	var events []string
	diskErr := errors.New("no disk nodes")
	m := New(bootableFake(), &fakePlatform{}, &fakeConsole{&events}, &fakeDisk{events: &events, initErr: diskErr}, 0x4000, 0x8000)

	if err := m.Init(); !errors.Is(err, diskErr) {
		t.Fatalf("Init returned %v, want the disk error", err)
	}
	if v, ok := m.Env.Get("console"); ok {
		t.Errorf("command line imported after failed disk init: console = %q", v)
	}
}

func TestFiniOnlyOnNoReturn(t *testing.T) {
	var events []string
	m := New(bootableFake(), &fakePlatform{}, &fakeConsole{&events}, &fakeDisk{events: &events}, 0x4000, 0x8000)
	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	events = events[:0]
	m.Fini(false)
	if len(events) != 0 {
		t.Errorf("Fini(false) tore down collaborators: %v", events)
	}

	m.Fini(true)
	want := []string{"disk-fini", "console-fini"}
	if len(events) != 2 || events[0] != want[0] || events[1] != want[1] {
		t.Errorf("Fini(true) events %v, want %v", events, want)
	}
}

func TestExit(t *testing.T) {
	var events []string
	fw := bootableFake()
	m := New(fw, &fakePlatform{}, &fakeConsole{&events}, &fakeDisk{events: &events}, 0, 0)
	m.Exit()
	if !fw.Exited {
		t.Error("Exit did not reach the firmware")
	}
}
