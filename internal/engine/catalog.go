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

package engine

import (
	"github.com/cockroachdb/ddflow/internal/util/ident"
)

// Kind tags what a catalog entry names.
type Kind int

const (
	// KindInput names a write-only input session.
	KindInput Kind = iota
	// KindTrace names a read-only trace handle.
	KindTrace
	// KindInputAndTrace names a session whose backing trace is also
	// directly queryable.
	KindInputAndTrace
	// KindDerive names a registered Deriver.
	KindDerive
)

// CatalogEntry is one registered name: its kind and its generation id
// (for stale-handle detection).
type CatalogEntry struct {
	Kind Kind
	Gid  ident.Gid
}

// Catalog is the coordinator's name table (spec §3 "Catalog"). It is
// held only by the coordinator; workers never consult it.
type Catalog struct {
	entries *ident.Map[CatalogEntry]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: ident.NewMap[CatalogEntry]()}
}

// Register adds name with kind, failing with ErrNameConflict if name
// is already registered.
func (c *Catalog) Register(name ident.Name, kind Kind) (CatalogEntry, error) {
	if _, exists := c.entries.Get(name); exists {
		return CatalogEntry{}, NameConflictError(name)
	}
	entry := CatalogEntry{Kind: kind, Gid: ident.NewGid()}
	c.entries.Put(name, entry)
	return entry, nil
}

// Lookup returns the entry for name, or ErrNotFound.
func (c *Catalog) Lookup(name ident.Name) (CatalogEntry, error) {
	entry, ok := c.entries.Get(name)
	if !ok {
		return CatalogEntry{}, NotFoundError(name)
	}
	return entry, nil
}

// Names returns every registered name, in registration order.
func (c *Catalog) Names() []ident.Name {
	var out []ident.Name
	c.entries.Range(func(n ident.Name, _ CatalogEntry) bool {
		out = append(out, n)
		return true
	})
	return out
}
