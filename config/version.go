// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

// Overridden at build time:
// go build -ldflags "-X github.com/u-root/ofwboot/config.gitVersion=..."
var (
	gitVersion = "dev"
	gitHash    = "unknown"
)
