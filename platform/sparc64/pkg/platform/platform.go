// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform describes sparc64 IEEE1275 machines. Their firmware
// memory map is not trustworthy for dynamic claiming, so the heap is one
// fixed window placed right above the loaded image and its boot stack,
// selected through FlagForceClaim.
package platform

import (
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/machine"
)

const (
	// bootStackSize sits between the module area and the heap window.
	bootStackSize = 0x40000

	staticHeapLen = 0x200000
)

type platform struct {
	modulesEnd uint64
}

func (p *platform) Caps() config.PlatformCaps {
	return config.PlatformCaps{
		HeapMaxSize:    config.HeapMaxSize64,
		StaticHeapBase: p.modulesEnd + bootStackSize,
		StaticHeapLen:  staticHeapLen,
	}
}

func (p *platform) TimeSource(fw ieee1275.Client) machine.TimeSource {
	return machine.FirmwareTimeSource(fw)
}

// Platform returns the sparc64 machine class capabilities. modulesEnd is
// the end of the loaded image plus module area; the static heap window
// starts one boot stack above it.
func Platform(modulesEnd uint64) machine.Platform {
	return &platform{modulesEnd: modulesEnd}
}
