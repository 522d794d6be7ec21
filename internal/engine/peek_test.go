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

func TestTracePeekNotReadyUntilUpperPassesAsOf(t *testing.T) {
	tr := NewTrace[string, string]()
	tr.Append("a", "x", hlc.New(1), 1)
	tr.AdvanceUpper(hlc.New(1))

	var replied []string
	task := NewTracePeek[string, string](tr, "a", hlc.New(1), nil, func(v []string) { replied = v })

	require.Equal(t, NotReady, task())
	assert.Nil(t, replied)

	tr.AdvanceUpper(hlc.New(2))
	require.Equal(t, Done, task())
	assert.Equal(t, []string{"x"}, replied)
}

func TestTracePeekCancelSkipsReply(t *testing.T) {
	tr := NewTrace[string, string]()
	tr.AdvanceUpper(hlc.New(1))

	cancel := make(chan struct{})
	close(cancel)
	called := false
	task := NewTracePeek[string, string](tr, "a", hlc.New(1), cancel, func(v []string) { called = true })

	assert.Equal(t, Done, task())
	assert.False(t, called, "a canceled peek must not invoke reply")
}

func TestTracePeekWithErrorsPrefersErrorTrace(t *testing.T) {
	data := NewTrace[string, string]()
	data.Append("a", "x", hlc.New(1), 1)
	data.AdvanceUpper(hlc.New(2))

	errs := NewTrace[string, string]()
	errs.Append("a", "boom", hlc.New(1), 1)
	errs.AdvanceUpper(hlc.New(2))

	var gotValues []string
	var gotErrs []string
	task := NewTracePeekWithErrors[string, string, string](
		data, errs, "a", hlc.New(1), nil,
		func(v []string) { gotValues = v },
		func(e []string) { gotErrs = e },
	)

	require.Equal(t, Done, task())
	assert.Nil(t, gotValues)
	assert.Equal(t, []string{"boom"}, gotErrs)
}

func TestTracePeekWithErrorsWaitsOnBothTraces(t *testing.T) {
	data := NewTrace[string, string]()
	data.Append("a", "x", hlc.New(1), 1)
	data.AdvanceUpper(hlc.New(2))

	errs := NewTrace[string, string]()
	errs.AdvanceUpper(hlc.New(1))

	task := NewTracePeekWithErrors[string, string, string](
		data, errs, "a", hlc.New(1), nil,
		func(v []string) {},
		func(e []string) {},
	)

	assert.Equal(t, NotReady, task(), "the error trace has not yet advanced past asOf")
}
