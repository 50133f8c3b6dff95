// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package secureboot

import (
	"testing"

	"github.com/u-root/ofwboot/pkg/env"
	"github.com/u-root/ofwboot/pkg/ieee1275"
)

func TestProbeLevels(t *testing.T) {
	cases := []struct {
		level  uint32
		forced bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
	}
	for _, tc := range cases {
		fw := &ieee1275.FakeClient{
			Nodes: map[string]ieee1275.Phandle{"/": 1},
			IntProps: map[ieee1275.Phandle]map[string]uint32{
				1: {"ibm,secure-boot": tc.level},
			},
		}
		store := env.NewStore()
		Probe(fw, store)

		v, ok := store.Get("check_appended_signatures")
		if tc.forced && (!ok || v != "forced") {
			t.Errorf("level %d: signature checking not forced", tc.level)
		}
		if !tc.forced && ok {
			t.Errorf("level %d: signature checking forced, want untouched", tc.level)
		}
	}
}

func TestProbeAbsentProperty(t *testing.T) {
	fw := &ieee1275.FakeClient{
		Nodes: map[string]ieee1275.Phandle{"/": 1},
	}
	store := env.NewStore()
	Probe(fw, store)
	if _, ok := store.Get("check_appended_signatures"); ok {
		t.Error("signature checking forced without a secure-boot property")
	}
}

func TestProbeMissingRootNode(t *testing.T) {
	store := env.NewStore()
	Probe(&ieee1275.FakeClient{}, store)
	if store.Len() != 0 {
		t.Error("probe touched the environment without a device tree root")
	}
}
