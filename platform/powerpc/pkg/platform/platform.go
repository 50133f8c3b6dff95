// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform describes the generic powerpc IEEE1275 machine class
// (pSeries, PowerMac and friends).
package platform

import (
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/machine"
)

type platform struct{}

func (p *platform) Caps() config.PlatformCaps {
	return config.PlatformCaps{
		HeapMaxSize: config.HeapMaxSize64,
	}
}

func (p *platform) TimeSource(fw ieee1275.Client) machine.TimeSource {
	return machine.FirmwareTimeSource(fw)
}

// Platform returns the powerpc machine class capabilities.
func Platform() machine.Platform {
	return &platform{}
}
