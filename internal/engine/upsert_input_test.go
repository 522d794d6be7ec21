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

	"github.com/cockroachdb/ddflow/internal/util/hlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertRecord struct {
	key   string
	value int
}

func (r upsertRecord) Key() string { return r.key }

func TestUpsertSessionInsertThenRetract(t *testing.T) {
	s := NewUpsertSession[string, upsertRecord]()

	s.Upsert("a", upsertRecord{key: "a", value: 1})
	s.AdvanceTo(hlc.New(1))

	assert.Equal(t, []upsertRecord{{key: "a", value: 1}}, s.Trace().ReadKey("a", hlc.New(1)))

	s.Delete("a")
	s.AdvanceTo(hlc.New(2))

	assert.Empty(t, s.Trace().ReadKey("a", hlc.New(2)))
}

func TestUpsertSessionLastWriteWinsWithinATick(t *testing.T) {
	s := NewUpsertSession[string, upsertRecord]()

	s.Upsert("a", upsertRecord{key: "a", value: 1})
	s.Upsert("a", upsertRecord{key: "a", value: 2})
	s.AdvanceTo(hlc.New(1))

	assert.Equal(t, []upsertRecord{{key: "a", value: 2}}, s.Trace().ReadKey("a", hlc.New(1)))
}

func TestUpsertSessionOverwriteRetractsPreviousValue(t *testing.T) {
	s := NewUpsertSession[string, upsertRecord]()

	s.Upsert("a", upsertRecord{key: "a", value: 1})
	s.AdvanceTo(hlc.New(1))
	s.Upsert("a", upsertRecord{key: "a", value: 2})
	s.AdvanceTo(hlc.New(2))

	assert.Equal(t, []upsertRecord{{key: "a", value: 1}}, s.Trace().ReadKey("a", hlc.New(1)))
	assert.Equal(t, []upsertRecord{{key: "a", value: 2}}, s.Trace().ReadKey("a", hlc.New(2)))
}

func TestUpsertSessionAdvanceToIsNoOpGoingBackwards(t *testing.T) {
	s := NewUpsertSession[string, upsertRecord]()
	s.Upsert("a", upsertRecord{key: "a", value: 1})
	s.AdvanceTo(hlc.New(5))
	require.Equal(t, hlc.New(5), s.Time())

	s.AdvanceTo(hlc.New(3))
	assert.Equal(t, hlc.New(5), s.Time(), "advancing to an earlier time must be a no-op")
}

func TestUpsertInputGroupDuplicateRegistrationPanics(t *testing.T) {
	group := NewUpsertInputGroup()
	AllocUpsertInput[upsertRecord, string](group, "recs")
	assert.Panics(t, func() { AllocUpsertInput[upsertRecord, string](group, "recs") })
}

func TestGetUpsertSessionRoundTrip(t *testing.T) {
	group := NewUpsertInputGroup()
	alloc := AllocUpsertInput[upsertRecord, string](group, "recs")
	alloc.Upsert("a", upsertRecord{key: "a", value: 1})
	alloc.AdvanceTo(hlc.New(1))

	session, ok := GetUpsertSession[upsertRecord, string](group)
	require.True(t, ok)
	assert.Equal(t, []upsertRecord{{key: "a", value: 1}}, session.Trace().ReadKey("a", hlc.New(1)))
}

func TestGetUpsertSessionMissingReturnsFalse(t *testing.T) {
	group := NewUpsertInputGroup()
	_, ok := GetUpsertSession[upsertRecord, string](group)
	assert.False(t, ok)
}

func TestUpsertInputGroupCollectInfoPreservesOrder(t *testing.T) {
	group := NewUpsertInputGroup()
	AllocUpsertInput[upsertRecord, string](group, "first")

	infos := group.CollectInfo()
	require.Len(t, infos, 1)
	assert.Equal(t, "first", infos[0].Name)
}
