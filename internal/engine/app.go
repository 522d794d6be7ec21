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

// Deriver recomputes one derived trace as of a newly-safe logical
// time. The dataflow operator library (joins, reductions, iterative
// fix-points) is out of scope for the core per spec §1; an application
// instead registers one Deriver per derived collection, and the worker
// runs every registered Deriver, in registration order, each time the
// frontier advances and a new time becomes logical-compaction-safe.
// Order matters: a Deriver that reads another Deriver's output must be
// registered after it.
type Deriver func(asOf hlc.Time) error

// WorkerState is the per-worker state the application's callbacks
// operate on: the trace group, both input groups, the registered
// derivers, and the live peek list.
type WorkerState[Q any, U any] struct {
	Traces  *TraceGroup
	Upserts *UpsertInputGroup
	Batches *BatchInputGroup

	Frontier hlc.Time

	derivers []Deriver
	peeks    []pendingPeek
}

// pendingPeek pairs a peek task with the application's own callback
// for resolving it with a terminal error if the worker shuts down
// before the task ever reports Done (SPEC_FULL.md item 5): the
// application knows how to encode that failure on its own reply
// channel, so the engine just calls onShutdown in place of invoking
// the task.
type pendingPeek struct {
	task       PeekTask
	onShutdown func()
}

// NewWorkerState returns an empty WorkerState.
func NewWorkerState[Q any, U any]() *WorkerState[Q, U] {
	return &WorkerState[Q, U]{
		Traces:  NewTraceGroup(),
		Upserts: NewUpsertInputGroup(),
		Batches: NewBatchInputGroup(),
	}
}

// RegisterDeriver appends a Deriver to run on every frontier advance.
func (s *WorkerState[Q, U]) RegisterDeriver(d Deriver) {
	s.derivers = append(s.derivers, d)
}

// PushPeek enqueues a peek task, normally called from HandleQuery.
// onShutdown is invoked instead of task if the worker shuts down while
// the peek is still outstanding.
func (s *WorkerState[Q, U]) PushPeek(task PeekTask, onShutdown func()) {
	s.peeks = append(s.peeks, pendingPeek{task: task, onShutdown: onShutdown})
}

// runDerivers invokes every registered Deriver in order for the
// newly-authorized time asOf.
func (s *WorkerState[Q, U]) runDerivers(asOf hlc.Time) error {
	for _, d := range s.derivers {
		if err := d(asOf); err != nil {
			return err
		}
	}
	return nil
}

// runPeeksOnce attempts every outstanding peek exactly once, dropping
// any that report Done.
func (s *WorkerState[Q, U]) runPeeksOnce() {
	if len(s.peeks) == 0 {
		return
	}
	remaining := s.peeks[:0]
	for _, p := range s.peeks {
		if p.task() == NotReady {
			remaining = append(remaining, p)
		}
	}
	s.peeks = remaining
}

// shutdownPeeks resolves every outstanding peek with a terminal error
// and discards them: the decision documented in SPEC_FULL.md item 5.
func (s *WorkerState[Q, U]) shutdownPeeks() {
	for _, p := range s.peeks {
		p.onShutdown()
	}
	s.peeks = nil
}

// App is the contract an application implements once, per spec §6.
type App[Q any, U any] interface {
	// Name identifies the application for logging and introspection.
	Name() string
	// Dataflow constructs the derived collections: it allocates input
	// sessions via state.Upserts/state.Batches, registers output
	// traces into state.Traces, and registers any Derivers needed to
	// keep them current.
	Dataflow(state *WorkerState[Q, U])
	// HandleQuery translates a query into zero or more peek tasks,
	// pushed via state.PushPeek. The worker has already asserted
	// state.Frontier == time+1 before calling this.
	HandleQuery(query Q, time hlc.Time, state *WorkerState[Q, U])
	// HandleUpdate translates an update into input-group calls.
	HandleUpdate(update U, state *WorkerState[Q, U])
}
