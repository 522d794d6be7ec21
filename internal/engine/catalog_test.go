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
	"testing"

	"github.com/cockroachdb/ddflow/internal/util/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRegisterAndLookup(t *testing.T) {
	c := NewCatalog()
	name := ident.New("widgets")

	entry, err := c.Register(name, KindTrace)
	require.NoError(t, err)
	assert.Equal(t, KindTrace, entry.Kind)

	got, err := c.Lookup(name)
	require.NoError(t, err)
	assert.True(t, got.Gid.Equal(entry.Gid))
}

func TestCatalogRegisterConflict(t *testing.T) {
	c := NewCatalog()
	name := ident.New("widgets")
	_, err := c.Register(name, KindTrace)
	require.NoError(t, err)

	_, err = c.Register(name, KindTrace)
	assert.ErrorIs(t, err, ErrNameConflict)
}

func TestCatalogLookupMissing(t *testing.T) {
	c := NewCatalog()
	_, err := c.Lookup(ident.New("nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogNamesPreservesRegistrationOrder(t *testing.T) {
	c := NewCatalog()
	_, _ = c.Register(ident.New("first"), KindTrace)
	_, _ = c.Register(ident.New("second"), KindInput)

	names := c.Names()
	require.Len(t, names, 2)
	assert.Equal(t, "first", names[0].String())
	assert.Equal(t, "second", names[1].String())
}
