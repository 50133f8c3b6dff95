// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bootpath resolves the firmware boot device specifier into the
// canonical device name and filesystem path the rest of the bootloader
// works with.
package bootpath

import (
	"strings"

	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// NetConfigFunc is registered once by the network subsystem. It receives
// the canonical device name and the raw boot specifier and returns the
// final device name and path for a network boot.
type NetConfigFunc func(canonicalDev, bootSpec string) (device, path string)

// Resolver translates firmware boot specifiers. A zero Resolver with just
// FW set is usable; network boots then resolve to nothing.
type Resolver struct {
	FW        ieee1275.Client
	netConfig NetConfigFunc
}

// SetNetConfig registers the network configuration callback. Called once
// by the network subsystem when it comes up.
func (r *Resolver) SetNetConfig(f NetConfigFunc) {
	r.netConfig = f
}

// BootLocation returns the canonical boot device name and the directory
// path of the booted image within its filesystem. Both are empty when the
// firmware recorded no boot device; path alone is empty when the specifier
// carries no usable filename.
func (r *Resolver) BootLocation() (device, path string) {
	spec, ok := r.FW.BootDevice()
	if !ok {
		return "", ""
	}

	devType, _ := r.FW.DeviceType(spec)
	if devType == "network" {
		canon := r.FW.CanonicaliseDevname(r.FW.AliasDevname(spec))
		if canon == "" {
			return "", ""
		}
		canon = strings.TrimRight(canon, ",:")
		if r.netConfig == nil {
			log.Warnf("Booted from network device %s but no network configuration is registered", canon)
			return "", ""
		}
		return r.netConfig(canon, spec)
	}

	if filename, ok := r.FW.Filename(spec); ok {
		// Truncate at the last directory and translate the firmware
		// backslash separators.
		if i := strings.LastIndexByte(filename, '\\'); i >= 0 {
			path = strings.ReplaceAll(filename[:i], "\\", "/")
		}
	}
	device = r.FW.EncodeDevname(spec)
	return device, path
}
