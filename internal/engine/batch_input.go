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
	"fmt"
	"reflect"

	"github.com/cockroachdb/ddflow/internal/util/hlc"
)

// BatchSession is an append-only input session: records arrive with an
// explicit diff weight and are never retracted on the caller's behalf
// (unlike UpsertSession, there is no "last value wins" bookkeeping).
type BatchSession[V comparable] struct {
	trace   *Trace[V, V]
	current hlc.Time
	pending []entry[V]
}

// NewBatchSession returns a session starting at hlc.Zero. The backing
// trace is keyed by the record's own value (a batch collection has no
// separate key), mirroring the source's append-only DDInputGroup.
func NewBatchSession[V comparable]() *BatchSession[V] {
	return &BatchSession[V]{trace: NewTrace[V, V]()}
}

// Trace returns the backing trace.
func (s *BatchSession[V]) Trace() *Trace[V, V] {
	return s.trace
}

// Time returns the session's current time.
func (s *BatchSession[V]) Time() hlc.Time {
	return s.current
}

// InsertBatch stages every value in values at diff +1.
func (s *BatchSession[V]) InsertBatch(values []V) {
	for _, v := range values {
		s.Update(v, 1)
	}
}

// Update stages value with diff at the current time.
func (s *BatchSession[V]) Update(value V, diff int64) {
	s.pending = append(s.pending, entry[V]{value: value, time: s.current, diff: diff})
}

// UpdateAt stages value with diff at an explicit time, which must not
// be before the current time.
func (s *BatchSession[V]) UpdateAt(value V, at hlc.Time, diff int64) {
	if at.Less(s.current) {
		panic("batch input: UpdateAt time precedes session's current time")
	}
	s.pending = append(s.pending, entry[V]{value: value, time: at, diff: diff})
}

// AdvanceAndFlush writes every pending entry into the trace, advances
// the session's current time to t, and advances the trace's upper to
// match. Advancing past the trace's current upper with nothing pending
// is a no-op beyond moving the frontier forward.
func (s *BatchSession[V]) AdvanceAndFlush(t hlc.Time) {
	for _, e := range s.pending {
		s.trace.Append(e.value, e.value, e.time, e.diff)
	}
	s.pending = nil
	if s.current.Less(t) {
		s.current = t
	}
	s.trace.AdvanceUpper(t)
}

// batchBundle type-erases a *BatchSession[V] the same way upsertBundle
// does for upsert sessions.
type batchBundle struct {
	name            string
	session         any
	advanceAndFlush func(t hlc.Time)
	time            func() hlc.Time
}

// BatchInputGroup is the registry of append-only input sessions
// described in spec §4.4.
type BatchInputGroup struct {
	order   []reflect.Type
	bundles map[reflect.Type]*batchBundle
}

// NewBatchInputGroup returns an empty group.
func NewBatchInputGroup() *BatchInputGroup {
	return &BatchInputGroup{bundles: make(map[reflect.Type]*batchBundle)}
}

// AllocBatchInput registers a new session for V, keyed by V's type
// identity, and returns it. It panics on duplicate registration.
func AllocBatchInput[V comparable](group *BatchInputGroup, name string) *BatchSession[V] {
	rt := recordType[V]()
	if _, exists := group.bundles[rt]; exists {
		panic(fmt.Sprintf("batch input group: duplicate registration for %s", rt))
	}
	session := NewBatchSession[V]()
	group.order = append(group.order, rt)
	group.bundles[rt] = &batchBundle{
		name:            name,
		session:         session,
		advanceAndFlush: session.AdvanceAndFlush,
		time:            session.Time,
	}
	return session
}

// GetBatchSession returns the session registered for V, or nil and
// false if none was registered.
func GetBatchSession[V comparable](group *BatchInputGroup) (*BatchSession[V], bool) {
	rt := recordType[V]()
	b, ok := group.bundles[rt]
	if !ok {
		return nil, false
	}
	session, ok := b.session.(*BatchSession[V])
	if !ok {
		panic(fmt.Sprintf("batch input group: %s registered with a different value shape", rt))
	}
	return session, true
}

// AdvanceAndFlush advances every registered session to t.
func (g *BatchInputGroup) AdvanceAndFlush(t hlc.Time) {
	for _, rt := range g.order {
		g.bundles[rt].advanceAndFlush(t)
	}
}

// CollectInfo returns the per-session introspection records in
// registration order.
func (g *BatchInputGroup) CollectInfo() []BundleInfo {
	out := make([]BundleInfo, 0, len(g.order))
	for _, rt := range g.order {
		b := g.bundles[rt]
		out = append(out, BundleInfo{Name: b.name, Time: b.time()})
	}
	return out
}
