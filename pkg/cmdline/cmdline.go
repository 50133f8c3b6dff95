// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdline imports the firmware "bootargs" property into the boot
// environment. The property is a `;`-separated list of key=value commands.
package cmdline

import (
	"strings"

	"github.com/u-root/ofwboot/pkg/env"
	"github.com/u-root/ofwboot/pkg/ieee1275"
)

// maxBootArgs bounds how much of the property is read.
const maxBootArgs = 256

// Import reads bootargs from the chosen node and sets one environment
// variable per key=value command. Commands without a `=` are skipped, as
// is an absent property or one of length <= 1.
func Import(fw ieee1275.Client, store *env.Store) {
	prop, ok := fw.GetProperty(fw.ChosenNode(), "bootargs")
	if !ok || len(prop) <= 1 {
		return
	}
	if len(prop) > maxBootArgs {
		prop = prop[:maxBootArgs]
	}

	args := string(prop)
	// Firmware properties are NUL terminated.
	if i := strings.IndexByte(args, 0); i >= 0 {
		args = args[:i]
	}

	i := 0
	for i < len(args) {
		var command string
		if end := strings.IndexByte(args[i:], ';'); end < 0 {
			// No more commands after this one.
			command = args[i:]
			i = len(args)
		} else {
			command = args[i : i+end]
			i += end + 1
			for i < len(args) && isSpace(args[i]) {
				i++
			}
		}

		if eq := strings.IndexByte(command, '='); eq >= 0 {
			store.Set(command[:eq], command[eq+1:])
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
