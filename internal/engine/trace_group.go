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

// TraceInfo is the per-trace introspection record exposed through
// CollectInternal.
type TraceInfo struct {
	Name     string
	Logical  hlc.Time
	Physical hlc.Time
}

// traceBundle type-erases a *Trace[K, V] behind closures, the same
// shape as the Rust source's Bundle<T>: a boxed handle plus a
// physical-compaction callback and a logical-compaction callback that
// downcast internally.
type traceBundle struct {
	name                 string
	trace                any
	upper                func() hlc.Time
	compactPhysical      func(requested hlc.Time)
	setLogicalCompaction func(at hlc.Time)
	info                 func() TraceInfo
}

// TraceGroup is the heterogeneous keyed registry of trace handles
// described in spec §4.2: one entry per distinct record type, looked
// up by static type identity.
type TraceGroup struct {
	order   []reflect.Type
	bundles map[reflect.Type]*traceBundle
}

// NewTraceGroup returns an empty TraceGroup.
func NewTraceGroup() *TraceGroup {
	return &TraceGroup{bundles: make(map[reflect.Type]*traceBundle)}
}

// recordType returns the type identity used as this trace's registry
// key: the zero value of U, the record type the trace is indexed by.
func recordType[U any]() reflect.Type {
	var zero U
	return reflect.TypeOf(&zero).Elem()
}

// RegisterTrace inserts tr under the type identity of U. It panics on
// duplicate registration, mirroring the assert in the source.
func RegisterTrace[U any, K comparable, V comparable](tg *TraceGroup, name string, tr *Trace[K, V]) {
	rt := recordType[U]()
	if _, exists := tg.bundles[rt]; exists {
		panic(fmt.Sprintf("trace group: duplicate registration for %s", rt))
	}
	tg.order = append(tg.order, rt)
	tg.bundles[rt] = &traceBundle{
		name:  name,
		trace: tr,
		upper: func() hlc.Time { return tr.Upper() },
		compactPhysical: func(requested hlc.Time) {
			tr.CompactPhysical(requested)
		},
		setLogicalCompaction: func(at hlc.Time) {
			tr.SetLogicalCompaction(at)
		},
		info: func() TraceInfo {
			return TraceInfo{Name: name, Logical: tr.LogicalCompaction(), Physical: tr.PhysicalCompaction()}
		},
	}
}

// GetTrace returns the trace registered for U, or nil and false if
// none was registered.
func GetTrace[U any, K comparable, V comparable](tg *TraceGroup) (*Trace[K, V], bool) {
	rt := recordType[U]()
	b, ok := tg.bundles[rt]
	if !ok {
		return nil, false
	}
	tr, ok := b.trace.(*Trace[K, V])
	if !ok {
		panic(fmt.Sprintf("trace group: %s registered with a different key/value shape", rt))
	}
	return tr, true
}

// PhysicalCompaction advances every registered trace's physical
// compaction frontier to its own current upper. Called each worker
// tick.
func (tg *TraceGroup) PhysicalCompaction() {
	for _, rt := range tg.order {
		b := tg.bundles[rt]
		b.compactPhysical(b.upper())
	}
}

// LogicalCompaction sets every registered trace's logical compaction
// frontier to at. Called once per epoch advance by AdvanceTimestamp.
func (tg *TraceGroup) LogicalCompaction(at hlc.Time) {
	for _, rt := range tg.order {
		tg.bundles[rt].setLogicalCompaction(at)
	}
}

// CollectInfo returns the per-trace introspection records in
// registration order.
func (tg *TraceGroup) CollectInfo() []TraceInfo {
	out := make([]TraceInfo, 0, len(tg.order))
	for _, rt := range tg.order {
		out = append(out, tg.bundles[rt].info())
	}
	return out
}
