// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap turns the firmware memory map into usable bootloader heap.
//
// The firmware lists which physical memory it considers available, but not
// all of that is safe to take: some machines keep live firmware structures
// in ranges they report as free, the map may include the bootloader's own
// image, and the OS booted next claims a well-known window without looking
// at the map at all. This package filters the map accordingly and converts
// what is left into claimed regions registered with the mm allocator.
package heap

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/u-root/ofwboot/config"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"github.com/u-root/ofwboot/pkg/logger"
	"github.com/u-root/ofwboot/pkg/metric"
	"github.com/u-root/ofwboot/pkg/mm"
)

var log = logger.LogContainer.GetSimpleLogger()

var (
	claimsTotal = metric.Counter(metric.MetricOpts{
		Namespace: "ofwboot",
		Subsystem: "heap",
		Name:      "claims_total",
	}, nil)
	claimedBytes = metric.Counter(metric.MetricOpts{
		Namespace: "ofwboot",
		Subsystem: "heap",
		Name:      "claimed_bytes",
	}, nil)
	overlapDrops = metric.Counter(metric.MetricOpts{
		Namespace: "ofwboot",
		Subsystem: "heap",
		Name:      "self_overlap_drops_total",
	}, nil)
)

const (
	// addrCeiling: memory at or above 4 GiB is never considered, in
	// either pass.
	addrCeiling = uint64(0xffffffff)

	// lowClaimBoundary: on machines with FlagNoPre15MClaim, firmware
	// structures live below 1.5 MiB even though that memory is listed
	// as available.
	lowClaimBoundary = uint64(0x180000)

	// osReservedBase: Linux claims memory at min(RMO top, 768 MiB) and
	// works down without reference to the available map. Never compete
	// with it for that window.
	osReservedBase = uint64(0x30000000)
)

// Claimer runs the heap claiming policy against one firmware client.
type Claimer struct {
	FW       ieee1275.Client
	Registry *mm.Registry
	Caps     config.PlatformCaps

	// ImageStart and ImageEnd bound the bootloader's own loaded image
	// plus its module area. Extents intersecting this range are dropped.
	ImageStart uint64
	ImageEnd   uint64
}

// ClaimHeap claims heap memory from the firmware and registers it with the
// local allocator.
//
// With FlagForceClaim the heap is exactly one fixed window from the
// platform caps. Otherwise a first pass sums the available memory below
// 4 GiB, a quarter of that (capped at the platform maximum) becomes the
// claim budget, and a second pass claims trimmed extents until the budget
// runs out.
//
// A failed firmware claim aborts the pass and is returned; regions claimed
// before the failure stay claimed and usable. Claiming nothing at all is
// not an error here, it surfaces at the first allocation instead.
func (c *Claimer) ClaimHeap() error {
	if c.FW.TestFlag(ieee1275.FlagForceClaim) {
		window := ieee1275.Extent{
			Base:   c.Caps.StaticHeapBase,
			Length: c.Caps.StaticHeapLen,
			Kind:   ieee1275.KindAvailable,
		}
		_, err := c.claimStep(window, math.MaxUint64)
		return err
	}

	total := c.availableSize()
	budget := total / 4
	if budget > c.Caps.HeapMaxSize {
		budget = c.Caps.HeapMaxSize
	}
	log.Infof("Heap budget is %s out of %s available below 4 GiB",
		humanize.IBytes(budget), humanize.IBytes(total))

	return c.claimPass(budget)
}

// availableSize sums the available memory below the 4 GiB ceiling,
// clipping extents that straddle it.
func (c *Claimer) availableSize() uint64 {
	var total uint64
	c.FW.VisitMemoryMap(func(e ieee1275.Extent) bool {
		if e.Kind != ieee1275.KindAvailable {
			return true
		}
		if e.Base > addrCeiling {
			return true
		}
		length := e.Length
		if e.Base+length > addrCeiling {
			length = addrCeiling - e.Base
		}
		total += length
		return true
	})
	return total
}

// claimPass walks the memory map claiming trimmed extents until the budget
// is exhausted or a claim fails.
func (c *Claimer) claimPass(budget uint64) error {
	var passErr error
	c.FW.VisitMemoryMap(func(e ieee1275.Extent) bool {
		claimed, err := c.claimStep(e, budget)
		if err != nil {
			passErr = err
			return false
		}
		budget -= claimed
		return budget != 0
	})
	return passErr
}

// claimStep applies the exclusion rules to one extent and claims whatever
// survives them, up to budget bytes. It returns the number of bytes
// claimed. A zero return with nil error means the extent was excluded or
// trimmed away entirely, which is not a failure.
func (c *Claimer) claimStep(e ieee1275.Extent, budget uint64) (uint64, error) {
	if e.Kind != ieee1275.KindAvailable {
		return 0, nil
	}

	addr := e.Base
	length := e.Length
	if addr > addrCeiling {
		return 0, nil
	}
	if addr+length > addrCeiling {
		length = addrCeiling - addr
	}

	if c.FW.TestFlag(ieee1275.FlagNoPre15MClaim) {
		if addr+length <= lowClaimBoundary {
			return 0, nil
		}
		if addr < lowClaimBoundary {
			length = addr + length - lowClaimBoundary
			addr = lowClaimBoundary
		}
	}

	if length == 0 {
		return 0, nil
	}
	// Required for some firmware.
	length--

	// Firmware should not list our own image as available. If it does
	// anyway, drop the whole extent: the module area above the image end
	// has no reliable upper bound, so partial trimming is not safe.
	if addr < c.ImageEnd && addr+length > c.ImageStart {
		log.Warnf("Firmware offered %#x+%#x which overlaps our own image, dropping it", addr, length)
		overlapDrops.Inc()
		length = 0
	}

	// Do not claim below osReservedBase out of an extent containing it.
	if addr < osReservedBase && addr+length > osReservedBase {
		length -= osReservedBase - addr
		addr = osReservedBase
	}

	if length > budget {
		length = budget
	}
	if length == 0 {
		return 0, nil
	}

	if err := c.FW.Claim(addr, length); err != nil {
		return 0, fmt.Errorf("claim of %#x bytes at %#x failed: %v", length, addr, err)
	}
	c.Registry.InitRegion(addr, length)
	claimsTotal.Inc()
	claimedBytes.Add(int(length))
	log.Infof("Claimed %s heap at %#x", humanize.IBytes(length), addr)

	return length, nil
}
