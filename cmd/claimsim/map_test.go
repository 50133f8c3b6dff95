// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/u-root/ofwboot/pkg/ieee1275"
)

const recordedMap = `
extents:
  - base: 0x0
    length: 0x30000000
  - base: 0x30000000
    length: 0x10000000
    kind: available
  - base: 0xfff00000
    length: 0x100000
    kind: reserved
`

func TestLoadMap(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/map.yaml", []byte(recordedMap), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	extents, err := loadMap(fs, "/map.yaml")
	if err != nil {
		t.Fatalf("loadMap failed: %v", err)
	}
	if len(extents) != 3 {
		t.Fatalf("got %d extents, want 3", len(extents))
	}
	if extents[0].Kind != ieee1275.KindAvailable {
		t.Error("kind-less extent did not default to available")
	}
	if extents[1].Base != 0x30000000 || extents[1].Length != 0x10000000 {
		t.Errorf("extent 1 = %+v, want base 0x30000000 length 0x10000000", extents[1])
	}
	if extents[2].Kind != ieee1275.KindReserved {
		t.Error("reserved extent not tagged reserved")
	}
}

func TestLoadMapRejectsUnknownKind(t *testing.T) {
	fs := afero.NewMemMapFs()
	bad := "extents:\n  - base: 0x0\n    length: 0x1000\n    kind: haunted\n"
	if err := afero.WriteFile(fs, "/map.yaml", []byte(bad), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := loadMap(fs, "/map.yaml"); err == nil {
		t.Fatal("loadMap accepted an unknown extent kind")
	}
}

func TestLoadMapMissingFile(t *testing.T) {
	if _, err := loadMap(afero.NewMemMapFs(), "/nope.yaml"); err == nil {
		t.Fatal("loadMap succeeded on a missing file")
	}
}
