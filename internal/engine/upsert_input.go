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

// UpsertRecord is satisfied by any record type an upsert input session
// can hold: it must be able to derive the key it upserts under.
type UpsertRecord[K comparable] interface {
	Key() K
}

// UpsertSession is one registered upsert input: a mutable cursor with a
// current time and a pending buffer of writes not yet flushed into its
// backing Trace, plus the live materialized state needed to compute
// retractions when a later write for the same key arrives.
//
// Writes at the same current time are combined with a "last send wins"
// tiebreak (spec §4.3's ordering guarantee): only the most recent
// Upsert/Delete call before the next AdvanceTo is reflected in the
// trace.
type UpsertSession[K comparable, V any] struct {
	trace   *Trace[K, V]
	current hlc.Time

	live    map[K]V
	present map[K]bool
	pending map[K]*V // nil means "pending delete"
}

// NewUpsertSession returns a session starting at hlc.Zero, backed by a
// fresh Trace.
func NewUpsertSession[K comparable, V any]() *UpsertSession[K, V] {
	return &UpsertSession[K, V]{
		trace:   NewTrace[K, V](),
		live:    make(map[K]V),
		present: make(map[K]bool),
		pending: make(map[K]*V),
	}
}

// Trace returns the backing trace, so the application can register it
// directly into the TraceGroup (making the input also queryable) or
// read it from a Deriver.
func (s *UpsertSession[K, V]) Trace() *Trace[K, V] {
	return s.trace
}

// Time returns the session's current time.
func (s *UpsertSession[K, V]) Time() hlc.Time {
	return s.current
}

// Upsert stages value under key, overwriting any pending write for key
// at the current time.
func (s *UpsertSession[K, V]) Upsert(key K, value V) {
	v := value
	s.pending[key] = &v
}

// Delete stages a retraction of key at the current time.
func (s *UpsertSession[K, V]) Delete(key K) {
	s.pending[key] = nil
}

// AdvanceTo flushes every pending write into the trace at the session's
// current time (recording a retraction of the previous live value, an
// insertion of the new one, or both, as needed), then moves the
// current time forward to t. It is a no-op if t is not beyond the
// current time.
func (s *UpsertSession[K, V]) AdvanceTo(t hlc.Time) {
	if !s.current.Less(t) {
		return
	}

	for key, next := range s.pending {
		wasPresent := s.present[key]
		oldValue := s.live[key]

		switch {
		case next == nil && wasPresent:
			s.trace.Append(key, oldValue, s.current, -1)
			delete(s.live, key)
			s.present[key] = false
		case next != nil && !wasPresent:
			s.trace.Append(key, *next, s.current, 1)
			s.live[key] = *next
			s.present[key] = true
		case next != nil && wasPresent:
			s.trace.Append(key, oldValue, s.current, -1)
			s.trace.Append(key, *next, s.current, 1)
			s.live[key] = *next
		}
	}
	s.pending = make(map[K]*V)

	s.current = t
	s.trace.AdvanceUpper(t)
}

// upsertBundle type-erases an UpsertSession behind the two operations
// the group itself needs: advance and time introspection, the same
// shape as the Rust source's upsert_input.rs Bundle<T>.
type upsertBundle struct {
	name      string
	session   any
	advanceTo func(t hlc.Time)
	time      func() hlc.Time
}

// BundleInfo is the per-session introspection record.
type BundleInfo struct {
	Name string
	Time hlc.Time
}

// UpsertInputGroup is the registry of upsert input sessions described
// in spec §4.3, keyed by record-type identity.
type UpsertInputGroup struct {
	order   []reflect.Type
	bundles map[reflect.Type]*upsertBundle
}

// NewUpsertInputGroup returns an empty group.
func NewUpsertInputGroup() *UpsertInputGroup {
	return &UpsertInputGroup{bundles: make(map[reflect.Type]*upsertBundle)}
}

// AllocUpsertInput registers a new session for U, keyed by U's type
// identity, and returns it. It panics on duplicate registration.
func AllocUpsertInput[U UpsertRecord[K], K comparable](group *UpsertInputGroup, name string) *UpsertSession[K, U] {
	rt := recordType[U]()
	if _, exists := group.bundles[rt]; exists {
		panic(fmt.Sprintf("upsert input group: duplicate registration for %s", rt))
	}
	session := NewUpsertSession[K, U]()
	group.order = append(group.order, rt)
	group.bundles[rt] = &upsertBundle{
		name:      name,
		session:   session,
		advanceTo: session.AdvanceTo,
		time:      session.Time,
	}
	return session
}

// GetUpsertSession returns the session registered for U, or nil and
// false if none was registered. It is how application code recovers a
// typed session that was allocated dynamically (by a Handle-initiated
// CreateUpsertInput) rather than during Dataflow.
func GetUpsertSession[U UpsertRecord[K], K comparable](group *UpsertInputGroup) (*UpsertSession[K, U], bool) {
	rt := recordType[U]()
	b, ok := group.bundles[rt]
	if !ok {
		return nil, false
	}
	session, ok := b.session.(*UpsertSession[K, U])
	if !ok {
		panic(fmt.Sprintf("upsert input group: %s registered with a different key/value shape", rt))
	}
	return session, true
}

// AdvanceTo advances every registered session to t.
func (g *UpsertInputGroup) AdvanceTo(t hlc.Time) {
	for _, rt := range g.order {
		g.bundles[rt].advanceTo(t)
	}
}

// CollectInfo returns the per-session introspection records in
// registration order.
func (g *UpsertInputGroup) CollectInfo() []BundleInfo {
	out := make([]BundleInfo, 0, len(g.order))
	for _, rt := range g.order {
		b := g.bundles[rt]
		out = append(out, BundleInfo{Name: b.name, Time: b.time()})
	}
	return out
}
