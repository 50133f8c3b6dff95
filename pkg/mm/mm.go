// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mm is the bootloader's local memory allocator. It hands out
// space from regions previously claimed from firmware.
//
// The allocator is a plain bump allocator per region: regions are added by
// the heap claim pass during machine init and allocations are never freed.
// Once the boot payload takes over, everything here is dead memory anyway.
package mm

import "errors"

// ErrOutOfMemory is returned by Alloc when no registered region can fit
// the request. The usual cause is that the claim pass never claimed
// anything, which only surfaces here on the first allocation.
var ErrOutOfMemory = errors.New("mm: out of memory")

const allocAlign = 16

// Region is a claimed memory range registered with the allocator.
type Region struct {
	Addr   uint64
	Length uint64

	// next is the bump offset of the first free byte within the region.
	next uint64
}

// Registry tracks all regions available for allocation. Mutated only
// during the single-threaded init sequence, so there is no locking.
type Registry struct {
	regions []*Region
}

// InitRegion registers a claimed range as usable heap.
func (r *Registry) InitRegion(addr, length uint64) {
	r.regions = append(r.regions, &Region{Addr: addr, Length: length})
}

// Regions returns a snapshot of the registered regions.
func (r *Registry) Regions() []Region {
	out := make([]Region, 0, len(r.regions))
	for _, reg := range r.regions {
		out = append(out, *reg)
	}
	return out
}

// Total returns the number of usable bytes registered.
func (r *Registry) Total() uint64 {
	var total uint64
	for _, reg := range r.regions {
		total += reg.Length
	}
	return total
}

// Alloc reserves size bytes from the first region that can fit them and
// returns the physical address of the reservation.
func (r *Registry) Alloc(size uint64) (uint64, error) {
	if size == 0 {
		return 0, errors.New("mm: zero-sized allocation")
	}
	for _, reg := range r.regions {
		next := (reg.next + allocAlign - 1) &^ uint64(allocAlign-1)
		if next+size < next || next+size > reg.Length {
			continue
		}
		reg.next = next + size
		return reg.Addr + next, nil
	}
	return 0, ErrOutOfMemory
}
