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

func TestWorkerStateRunDeriversInOrder(t *testing.T) {
	state := NewWorkerState[struct{}, struct{}]()
	var order []int
	state.RegisterDeriver(func(hlc.Time) error { order = append(order, 1); return nil })
	state.RegisterDeriver(func(hlc.Time) error { order = append(order, 2); return nil })

	require.NoError(t, state.runDerivers(hlc.New(1)))
	assert.Equal(t, []int{1, 2}, order)
}

func TestWorkerStateRunPeeksOnceKeepsNotReady(t *testing.T) {
	state := NewWorkerState[struct{}, struct{}]()
	var doneCalls, notReadyCalls int
	state.PushPeek(func() PeekResult { notReadyCalls++; return NotReady }, nil)
	state.PushPeek(func() PeekResult { doneCalls++; return Done }, nil)

	state.runPeeksOnce()
	assert.Equal(t, 1, notReadyCalls)
	assert.Equal(t, 1, doneCalls)
	assert.Len(t, state.peeks, 1, "only the NotReady task should remain queued")

	state.runPeeksOnce()
	assert.Equal(t, 2, notReadyCalls)
}

func TestWorkerStateShutdownPeeksResolvesEveryOutstandingTask(t *testing.T) {
	state := NewWorkerState[struct{}, struct{}]()
	var resolved int
	state.PushPeek(func() PeekResult { return NotReady }, func() { resolved++ })
	state.PushPeek(func() PeekResult { return NotReady }, func() { resolved++ })

	state.shutdownPeeks()
	assert.Equal(t, 2, resolved)
	assert.Empty(t, state.peeks)
}
