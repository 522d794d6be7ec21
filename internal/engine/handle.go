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
	"github.com/cockroachdb/ddflow/internal/util/ident"
)

// Handle is the object user code retains (spec §2, §6): it submits
// queries and updates to the coordinator over a channel and triggers a
// coordinated shutdown when Close is called.
type Handle[Q any, U any] struct {
	cmds chan<- ClientCommand[Q, U]
}

// Update submits an asynchronous update.
func (h *Handle[Q, U]) Update(u U) {
	h.cmds <- ClientCommand[Q, U]{Update: &u}
}

// Query submits a query. cancel is forwarded to every worker on
// ServerQuery.Cancel; the worker does not pass it on to
// App.HandleQuery, so closing it has no effect on the peek tasks the
// query creates. An application that wants cancellation carries its
// own cancel channel inside Q and hands it to the peek task.
func (h *Handle[Q, U]) Query(q Q, cancel <-chan struct{}) {
	h.cmds <- ClientCommand[Q, U]{Query: &ClientQuery[Q]{Query: q, Cancel: cancel}}
}

// CollectInternalData gathers a SysInternal snapshot across the
// coordinator and every worker.
func (h *Handle[Q, U]) CollectInternalData() SysInternal {
	reply := make(chan SysInternal, 1)
	h.cmds <- ClientCommand[Q, U]{CollectInternal: reply}
	return <-reply
}

// Close triggers a coordinated shutdown: every worker drains its
// current batch, resolves outstanding peeks with a terminal error, and
// exits. Close is idiomatic Go's analogue of the source's Drop impl.
func (h *Handle[Q, U]) Close() {
	h.cmds <- ClientCommand[Q, U]{DropApp: true}
}

// createDynamic is the shared implementation behind the free
// CreateUpsertInput / CreateUpsertInputAndTrace / CreateDerive
// functions below: it registers name in the coordinator's catalog and
// broadcasts alloc to every worker's own WorkerState.
func createDynamic[Q any, U any](h *Handle[Q, U], name string, kind Kind, alloc func(*WorkerState[Q, U]) error) error {
	reply := make(chan error, 1)
	h.cmds <- ClientCommand[Q, U]{Create: &ClientCreate[Q, U]{
		Name:  ident.New(name),
		Kind:  kind,
		Alloc: alloc,
		Reply: reply,
	}}
	return <-reply
}

// CreateUpsertInput dynamically allocates a new upsert input session
// for U on every worker, addressable under name (SPEC_FULL.md item 3).
func CreateUpsertInput[U UpsertRecord[K], K comparable, Q any, Uu any](h *Handle[Q, Uu], name string) error {
	return createDynamic(h, name, KindInput, func(state *WorkerState[Q, Uu]) error {
		AllocUpsertInput[U, K](state.Upserts, name)
		return nil
	})
}

// CreateUpsertInputAndTrace is CreateUpsertInput plus immediately
// registering the session's backing trace into the trace group, so it
// is directly queryable.
func CreateUpsertInputAndTrace[U UpsertRecord[K], K comparable, Q any, Uu any](h *Handle[Q, Uu], name string) error {
	return createDynamic(h, name, KindInputAndTrace, func(state *WorkerState[Q, Uu]) error {
		session := AllocUpsertInput[U, K](state.Upserts, name)
		RegisterTrace[U](state.Traces, name, session.Trace())
		return nil
	})
}

// CreateDerive dynamically registers a Deriver on every worker, under
// name, to run on every subsequent frontier advance.
func CreateDerive[Q any, U any](h *Handle[Q, U], name string, deriver Deriver) error {
	return createDynamic(h, name, KindDerive, func(state *WorkerState[Q, U]) error {
		state.RegisterDeriver(deriver)
		return nil
	})
}
