// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package machine

import (
	"time"

	"github.com/u-root/ofwboot/pkg/ieee1275"
)

// TimeSource reports elapsed milliseconds since some fixed point before
// Init. Installed once by Init from the platform capabilities and read
// thereafter.
type TimeSource func() uint64

// FirmwareTimeSource reads the firmware milliseconds call. The usual
// choice: it survives without any calibrated CPU timer.
func FirmwareTimeSource(fw ieee1275.Client) TimeSource {
	return func() uint64 {
		return uint64(fw.Milliseconds())
	}
}

// UptimeTimeSource counts from its own installation using the CPU
// timestamp clock, for platform classes whose firmware milliseconds call
// is too coarse to time I/O with.
func UptimeTimeSource() TimeSource {
	start := time.Now()
	return func() uint64 {
		return uint64(time.Since(start) / time.Millisecond)
	}
}
