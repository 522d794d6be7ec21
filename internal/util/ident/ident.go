// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ident contains the engine's short interned Name type and a
// small ordered-map helper used by the catalog to keep deterministic
// iteration order over its registry.
package ident

import "fmt"

// Name is a short, interned identifier for an input, a trace, or both.
// Two Names are equal iff their underlying strings are equal; Name is
// comparable and usable as a map key.
type Name struct {
	raw string
}

// New interns s into a Name. Neither New nor the catalog rejects an
// empty name; IsZero reports one.
func New(s string) Name {
	return Name{raw: s}
}

// String returns the underlying string.
func (n Name) String() string {
	return n.raw
}

// IsZero reports whether n is the empty Name.
func (n Name) IsZero() bool {
	return n.raw == ""
}

// GoString supports %#v formatting in test failures.
func (n Name) GoString() string {
	return fmt.Sprintf("ident.New(%q)", n.raw)
}

// Map is an insertion-ordered map keyed by Name. It exists because the
// engine frequently needs to range over a registry in a stable order
// for introspection (SysInternal) and for deterministic replay, the
// same concern that motivates the SchemaMap/TableMap helpers it is
// modeled on.
type Map[V any] struct {
	order []Name
	data  map[Name]V
}

// NewMap returns an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{data: make(map[Name]V)}
}

// Put inserts or overwrites the value for name, preserving the
// original insertion position on overwrite.
func (m *Map[V]) Put(name Name, v V) {
	if _, ok := m.data[name]; !ok {
		m.order = append(m.order, name)
	}
	m.data[name] = v
}

// Get returns the value for name and whether it was present.
func (m *Map[V]) Get(name Name) (V, bool) {
	v, ok := m.data[name]
	return v, ok
}

// Delete removes name, if present.
func (m *Map[V]) Delete(name Name) {
	if _, ok := m.data[name]; !ok {
		return
	}
	delete(m.data, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.order)
}

// Range calls fn for every entry in insertion order, stopping early if
// fn returns false.
func (m *Map[V]) Range(fn func(Name, V) bool) {
	for _, name := range m.order {
		if !fn(name, m.data[name]) {
			return
		}
	}
}
