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

type traceGroupMarker struct{}

func TestTraceGroupRegisterAndGet(t *testing.T) {
	tg := NewTraceGroup()
	tr := NewTrace[string, string]()
	RegisterTrace[traceGroupMarker](tg, "widgets", tr)

	got, ok := GetTrace[traceGroupMarker, string, string](tg)
	require.True(t, ok)
	assert.Same(t, tr, got)
}

func TestTraceGroupGetMissingReturnsFalse(t *testing.T) {
	tg := NewTraceGroup()
	_, ok := GetTrace[traceGroupMarker, string, string](tg)
	assert.False(t, ok)
}

func TestTraceGroupDuplicateRegistrationPanics(t *testing.T) {
	tg := NewTraceGroup()
	RegisterTrace[traceGroupMarker](tg, "widgets", NewTrace[string, string]())
	assert.Panics(t, func() {
		RegisterTrace[traceGroupMarker](tg, "widgets-again", NewTrace[string, string]())
	})
}

func TestTraceGroupLogicalCompactionAppliesToEveryMember(t *testing.T) {
	tg := NewTraceGroup()
	a := NewTrace[string, string]()
	RegisterTrace[traceGroupMarker](tg, "a", a)

	tg.LogicalCompaction(hlc.New(3))
	assert.Equal(t, hlc.New(3), a.LogicalCompaction())

	infos := tg.CollectInfo()
	require.Len(t, infos, 1)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, hlc.New(3), infos[0].Logical)
}

func TestTraceGroupPhysicalCompactionUsesCurrentUpper(t *testing.T) {
	tg := NewTraceGroup()
	a := NewTrace[string, string]()
	a.Append("k", "v", hlc.New(1), 1)
	a.AdvanceUpper(hlc.New(2))
	RegisterTrace[traceGroupMarker](tg, "a", a)

	tg.PhysicalCompaction()
	assert.Equal(t, hlc.New(2), a.PhysicalCompaction())
}
