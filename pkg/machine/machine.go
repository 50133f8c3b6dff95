// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package machine sequences platform bring-up after the firmware hands
// over execution, and the teardown before control is relinquished.
package machine

import (
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/bootpath"
	"github.com/u-root/ofwboot/pkg/cmdline"
	"github.com/u-root/ofwboot/pkg/env"
	"github.com/u-root/ofwboot/pkg/heap"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/logger"
	"github.com/u-root/ofwboot/pkg/metric"
	"github.com/u-root/ofwboot/pkg/mm"
	"github.com/u-root/ofwboot/pkg/secureboot"
)

var log = logger.LogContainer.GetSimpleLogger()

// Console is the firmware console collaborator. Early init runs before any
// heap exists; late init may allocate.
type Console interface {
	InitEarly()
	InitLately()
	Fini()
}

// Disk is the firmware disk driver collaborator.
type Disk interface {
	Init() error
	Fini()
}

// Platform supplies the per-platform-class capabilities: the claim policy
// parameters and the elapsed-time source.
type Platform interface {
	Caps() config.PlatformCaps
	TimeSource(fw ieee1275.Client) TimeSource
}

// Machine owns the boot-time state assembled during Init.
type Machine struct {
	fw      ieee1275.Client
	plat    Platform
	console Console
	disk    Disk

	// Env receives the imported command line and policy flags.
	Env *env.Store

	// Registry is the local allocator fed by the heap claim pass.
	Registry *mm.Registry

	// Resolver translates the firmware boot specifier. The network
	// subsystem registers its callback on it before BootLocation is
	// consulted.
	Resolver *bootpath.Resolver

	imageStart uint64
	imageEnd   uint64
	now        TimeSource
}

// New assembles a machine. imageStart and imageEnd bound the bootloader's
// loaded image plus module area, as excluded from heap claiming.
func New(fw ieee1275.Client, plat Platform, console Console, disk Disk, imageStart, imageEnd uint64) *Machine {
	return &Machine{
		fw:         fw,
		plat:       plat,
		console:    console,
		disk:       disk,
		Env:        env.NewStore(),
		Registry:   &mm.Registry{},
		Resolver:   &bootpath.Resolver{FW: fw},
		imageStart: imageStart,
		imageEnd:   imageEnd,
	}
}

// Init brings the machine up: heap first, then the collaborators that need
// one, then the boot parameters. Returns the first hard failure; missing
// firmware data is not one.
func (m *Machine) Init() error {
	m.console.InitEarly()

	version := metric.Counter(metric.MetricOpts{
		Namespace: "ofwboot",
		Subsystem: "machine",
		Name:      "version",
	}, []string{`version="` + config.DefaultConfig.Version.Version + `"`})
	version.Inc()

	log.Infof("Claiming heap from firmware")
	claimer := &heap.Claimer{
		FW:         m.fw,
		Registry:   m.Registry,
		Caps:       m.plat.Caps(),
		ImageStart: m.imageStart,
		ImageEnd:   m.imageEnd,
	}
	if err := claimer.ClaimHeap(); err != nil {
		log.Errorf("heap claim failed: %v", err)
		return err
	}

	m.console.InitLately()

	log.Infof("Initializing firmware disk access")
	if err := m.disk.Init(); err != nil {
		log.Errorf("disk init failed: %v", err)
		return err
	}

	log.Infof("Importing firmware command line")
	cmdline.Import(m.fw, m.Env)

	m.now = m.plat.TimeSource(m.fw)

	secureboot.Probe(m.fw, m.Env)

	return nil
}

// Fini tears down the disk and console collaborators when the next stage
// does not return control. Claimed memory is never released.
func (m *Machine) Fini(noReturn bool) {
	if !noReturn {
		return
	}
	m.disk.Fini()
	m.console.Fini()
}

// Exit relinquishes control back to the firmware.
func (m *Machine) Exit() {
	m.fw.Exit()
}

// Now returns elapsed milliseconds from the installed time source. Zero
// before Init has installed one.
func (m *Machine) Now() uint64 {
	if m.now == nil {
		return 0
	}
	return m.now()
}

// BootLocation resolves the firmware boot device into a canonical device
// name and filesystem path.
func (m *Machine) BootLocation() (device, path string) {
	return m.Resolver.BootLocation()
}
