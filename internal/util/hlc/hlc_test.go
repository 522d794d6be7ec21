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

package hlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepForward(t *testing.T) {
	a := New(5)
	b := a.StepForward()
	assert.Equal(t, uint64(6), b.Seq())
	assert.True(t, a.Less(b))
}

func TestStepForwardOverflowPanics(t *testing.T) {
	max := New(^uint64(0))
	assert.Panics(t, func() { max.StepForward() })

	_, ok := max.TryStepForward()
	assert.False(t, ok)
}

func TestStepBackAtMinimum(t *testing.T) {
	_, ok := Zero.StepBack()
	assert.False(t, ok)

	prev, ok := New(1).StepBack()
	require.True(t, ok)
	assert.Equal(t, Zero, prev)
}

func TestJoinMeet(t *testing.T) {
	a, b := New(3), New(7)
	assert.Equal(t, b, Join(a, b))
	assert.Equal(t, a, Meet(a, b))
}

func TestCompareTotalOrder(t *testing.T) {
	assert.Equal(t, -1, Compare(New(1), New(2)))
	assert.Equal(t, 0, Compare(New(2), New(2)))
	assert.Equal(t, 1, Compare(New(3), New(2)))
}

func TestBytesRoundTrip(t *testing.T) {
	orig := New(123456789)
	assert.Equal(t, orig, FromBytes(orig.Bytes()))
}

func TestRefinement(t *testing.T) {
	assert.Equal(t, Zero, FromOuter(New(99).ToOuter()))
}
