// Copyright 2023 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env holds the boot environment variables. Values live for the
// boot session only; nothing is persisted.
package env

// Store is a flat name/value namespace. Boot runs single threaded, so the
// store carries no locking.
type Store struct {
	vars map[string]string
}

// NewStore returns an empty environment.
func NewStore() *Store {
	return &Store{vars: make(map[string]string)}
}

// Set stores a variable, overwriting any previous value.
func (s *Store) Set(name, value string) {
	s.vars[name] = value
}

// Get looks up a variable.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the number of variables set.
func (s *Store) Len() int {
	return len(s.vars)
}
