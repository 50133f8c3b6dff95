// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import "testing"

func TestSetGet(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("root"); ok {
		t.Fatal("empty store claims to hold a variable")
	}
	s.Set("root", "hd0")
	s.Set("root", "hd1")
	v, ok := s.Get("root")
	if !ok || v != "hd1" {
		t.Errorf("Get(root) = %q/%v, want overwrite to hd1", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
