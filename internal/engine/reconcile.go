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

import "github.com/cockroachdb/ddflow/internal/util/hlc"

// Reconciler turns a Deriver that recomputes its output from scratch on
// every tick into a proper sequence of (retraction, insertion) diffs
// against a Trace, the same way UpsertSession.AdvanceTo turns a "last
// send wins" write into a retract/insert pair: it remembers the
// multiset last written per key and, on the next call, emits only the
// difference.
type Reconciler[K comparable, V comparable] struct {
	trace *Trace[K, V]
	live  map[K]map[V]int64
}

// NewReconciler returns a Reconciler writing into trace, starting from
// an empty collection.
func NewReconciler[K comparable, V comparable](trace *Trace[K, V]) *Reconciler[K, V] {
	return &Reconciler[K, V]{trace: trace, live: make(map[K]map[V]int64)}
}

// Reconcile replaces the collection's contents as of at with desired
// (one multiset of values per key) and advances the trace's upper past
// at. Keys absent from desired are treated as empty.
func (r *Reconciler[K, V]) Reconcile(at hlc.Time, desired map[K][]V) {
	next := make(map[K]map[V]int64, len(desired))
	for k, values := range desired {
		m := make(map[V]int64, len(values))
		for _, v := range values {
			m[v]++
		}
		next[k] = m
	}

	touched := make(map[K]struct{}, len(r.live)+len(next))
	for k := range r.live {
		touched[k] = struct{}{}
	}
	for k := range next {
		touched[k] = struct{}{}
	}

	for k := range touched {
		old := r.live[k]
		now := next[k]
		values := make(map[V]struct{}, len(old)+len(now))
		for v := range old {
			values[v] = struct{}{}
		}
		for v := range now {
			values[v] = struct{}{}
		}
		for v := range values {
			delta := now[v] - old[v]
			if delta != 0 {
				r.trace.Append(k, v, at, delta)
			}
		}
	}

	r.live = next
	r.trace.AdvanceUpper(at.StepForward())
}
