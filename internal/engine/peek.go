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
	"github.com/cockroachdb/ddflow/internal/util/hlc"
)

// PeekResult is the outcome of attempting a deferred query once.
type PeekResult int

const (
	// NotReady means the watched trace has not yet advanced past the
	// query time; the task must be retried on a later worker tick.
	NotReady PeekResult = iota
	// Done means the task has delivered its reply (or been canceled)
	// and must be dropped from the worker's pending-peek list.
	Done
)

// PeekTask is a single outstanding deferred query. The worker invokes
// it once per tick until it reports Done.
type PeekTask func() PeekResult

// NewTracePeek builds a PeekTask implementing the contract in spec
// §4.5: wait for trace's upper to move strictly past asOf, assert
// logical compaction safety, then read the key and deliver the
// accumulated values. cancel, if closed before the task completes, has
// the task report Done without calling reply (the "dropped reply
// channel mid-peek" case resolved in SPEC_FULL.md).
func NewTracePeek[K comparable, V comparable](
	trace *Trace[K, V], key K, asOf hlc.Time, cancel <-chan struct{}, reply func([]V),
) PeekTask {
	release := trace.Hold(asOf)
	released := false
	finish := func() {
		if !released {
			release()
			released = true
		}
	}

	return func() PeekResult {
		select {
		case <-cancel:
			finish()
			return Done
		default:
		}

		if !asOf.Less(trace.Upper()) {
			return NotReady
		}

		values := trace.ReadKey(key, asOf)
		reply(values)
		finish()
		return Done
	}
}

// NewTracePeekWithErrors builds a PeekTask for an application that
// attaches an error trace parallel to its data trace (spec §4.5, last
// paragraph, and §7 "Application-level dataflow errors"). Both traces
// must advance past asOf before the task fires; if the error trace has
// any accumulated error under key at or before asOf, replyErr is called
// instead of reply. Errors stored under other keys are not consulted.
func NewTracePeekWithErrors[K comparable, V comparable, E comparable](
	data *Trace[K, V], errs *Trace[K, E], key K, asOf hlc.Time,
	cancel <-chan struct{}, reply func([]V), replyErr func([]E),
) PeekTask {
	releaseData := data.Hold(asOf)
	releaseErrs := errs.Hold(asOf)
	released := false
	finish := func() {
		if !released {
			releaseData()
			releaseErrs()
			released = true
		}
	}

	return func() PeekResult {
		select {
		case <-cancel:
			finish()
			return Done
		default:
		}

		if !asOf.Less(data.Upper()) || !asOf.Less(errs.Upper()) {
			return NotReady
		}

		if errValues := errs.ReadKey(key, asOf); len(errValues) > 0 {
			replyErr(errValues)
			finish()
			return Done
		}

		reply(data.ReadKey(key, asOf))
		finish()
		return Done
	}
}
