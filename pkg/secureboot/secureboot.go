// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package secureboot probes the firmware secure-boot mode and arms
// signature checking when the firmware enforces it.
package secureboot

import (
	"github.com/u-root/ofwboot/pkg/env"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

// ibm,secure-boot values:
// 0 - disabled
// 1 - audit
// 2 - enforce
// 3 - enforce + OS-specific behaviour
const enforceLevel = 2

// Probe reads the secure-boot level from the device tree root and forces
// appended-signature checking at enforce level or above. Audit mode is
// deliberately not enforced here.
func Probe(fw ieee1275.Client, store *env.Store) {
	root, err := fw.FindDevice("/")
	if err != nil {
		return
	}
	level := fw.GetIntegerProperty(root, "ibm,secure-boot", 0)
	if level >= enforceLevel {
		log.Infof("Firmware enforces secure boot (level %d), forcing signature checks", level)
		store.Set("check_appended_signatures", "forced")
	}
}
