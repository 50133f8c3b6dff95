// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/u-root/ofwboot/pkg/ieee1275"
	"gopkg.in/yaml.v3"
)

// mapFile is the on-disk format of a recorded firmware memory map.
//
//	extents:
//	  - base: 0x0
//	    length: 0x30000000
//	    kind: available
//	  - base: 0xfff00000
//	    length: 0x100000
//	    kind: reserved
type mapFile struct {
	Extents []extentEntry `yaml:"extents"`
}

type extentEntry struct {
	Base   uint64 `yaml:"base"`
	Length uint64 `yaml:"length"`
	Kind   string `yaml:"kind"`
}

func loadMap(fs afero.Fs, path string) ([]ieee1275.Extent, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %v", path, err)
	}
	var mf mapFile
	if err := yaml.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("parse %s failed: %v", path, err)
	}

	extents := make([]ieee1275.Extent, 0, len(mf.Extents))
	for i, e := range mf.Extents {
		var kind ieee1275.MemoryKind
		switch e.Kind {
		case "", "available":
			kind = ieee1275.KindAvailable
		case "reserved":
			kind = ieee1275.KindReserved
		default:
			return nil, fmt.Errorf("extent %d in %s has unknown kind %q", i, path, e.Kind)
		}
		extents = append(extents, ieee1275.Extent{
			Base:   e.Base,
			Length: e.Length,
			Kind:   kind,
		})
	}
	return extents, nil
}
