// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform describes i386 machines running under Open Firmware
// (OLPC XO-1 class). Pointers are 32 bit, so the heap cap is small, and
// the firmware milliseconds call is too coarse for timing, so time comes
// from the CPU timestamp clock instead.
package platform

import (
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/machine"
)

type platform struct{}

func (p *platform) Caps() config.PlatformCaps {
	return config.PlatformCaps{
		HeapMaxSize: config.HeapMaxSize32,
	}
}

func (p *platform) TimeSource(fw ieee1275.Client) machine.TimeSource {
	return machine.UptimeTimeSource()
}

// Platform returns the i386 machine class capabilities.
func Platform() machine.Platform {
	return &platform{}
}
