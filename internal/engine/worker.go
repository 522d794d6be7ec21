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

	"github.com/cockroachdb/ddflow/internal/util/stopper"
	log "github.com/sirupsen/logrus"
)

// Worker owns a WorkerContext (here, *WorkerState) and the receiving
// end of its command channel. Exactly one goroutine per Worker ever
// touches its state; spec §5 requires no mutex inside a worker and
// this type relies on that being true.
type Worker[Q any, U any] struct {
	index   int
	app     App[Q, U]
	state   *WorkerState[Q, U]
	cmds    <-chan ServerCommand[Q, U]
	metrics *Metrics

	shutdown bool
}

// NewWorker builds a worker, running the application's Dataflow
// callback once to construct its derived collections before any
// command is processed.
func NewWorker[Q any, U any](index int, app App[Q, U], cmds <-chan ServerCommand[Q, U], metrics *Metrics) *Worker[Q, U] {
	w := &Worker[Q, U]{
		index:   index,
		app:     app,
		state:   NewWorkerState[Q, U](),
		cmds:    cmds,
		metrics: metrics,
	}
	app.Dataflow(w.state)
	return w
}

// Run executes the worker's main loop (spec §4.6) until the command
// channel closes, a ShutdownControl is dispatched, or ctx begins
// stopping. It is meant to be launched via ctx.Go.
func (w *Worker[Q, U]) Run(ctx *stopper.Context) error {
	log.WithField("worker", w.index).Debug("worker starting")
	for {
		w.state.Traces.PhysicalCompaction()

		select {
		case cmd, ok := <-w.cmds:
			if !ok {
				w.shutdownNow()
				return nil
			}
			w.dispatch(cmd)
			w.drainBuffered()
		case <-ctx.Stopping():
			w.shutdownNow()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

		w.state.runPeeksOnce()
		w.metrics.setFrontier(w.index, w.state.Frontier)

		if w.shutdown {
			w.shutdownNow()
			return nil
		}
	}
}

// drainBuffered dispatches every command the coordinator is ready to
// hand over right now, without blocking. The worker channels are
// unbuffered, so an AdvanceTimestamp paired with an update is applied
// in the same tick only if the coordinator is already waiting to send
// it.
func (w *Worker[Q, U]) drainBuffered() {
	for {
		select {
		case cmd, ok := <-w.cmds:
			if !ok {
				w.shutdown = true
				return
			}
			w.dispatch(cmd)
		default:
			return
		}
	}
}

func (w *Worker[Q, U]) dispatch(cmd ServerCommand[Q, U]) {
	switch {
	case cmd.Query != nil:
		w.dispatchQuery(*cmd.Query)
	case cmd.Update != nil:
		w.app.HandleUpdate(*cmd.Update, w.state)
	case cmd.Control != nil:
		w.dispatchControl(cmd.Control)
	case cmd.Create != nil:
		cmd.Create.Reply <- cmd.Create.Alloc(w.state)
	default:
		panic("worker: empty ServerCommand")
	}
}

func (w *Worker[Q, U]) dispatchQuery(q ServerQuery[Q]) {
	// Precondition (spec §4.6, §8 property 2): state.frontier = t+1.
	if !w.state.Frontier.Equal(q.Time.StepForward()) {
		panic(fmt.Sprintf("worker %d: query time %s inconsistent with frontier %s", w.index, q.Time, w.state.Frontier))
	}
	w.metrics.peeksAttempted.WithLabelValues(w.app.Name()).Inc()
	w.app.HandleQuery(q.Query, q.Time, w.state)
}

func (w *Worker[Q, U]) dispatchControl(c ControlCommand) {
	switch ctl := c.(type) {
	case AdvanceTimestamp:
		// Invariant (spec §8 property 1): t == frontier_before + 1.
		if !ctl.To.Equal(w.state.Frontier.StepForward()) {
			panic(fmt.Sprintf("worker %d: AdvanceTimestamp(%s) inconsistent with frontier %s", w.index, ctl.To, w.state.Frontier))
		}
		previous := w.state.Frontier
		w.state.Frontier = ctl.To
		w.state.Upserts.AdvanceTo(ctl.To)
		w.state.Batches.AdvanceAndFlush(ctl.To)
		w.state.Traces.LogicalCompaction(previous)
		if err := w.state.runDerivers(previous); err != nil {
			log.WithError(err).WithField("worker", w.index).Error("deriver failed")
		}
		for _, info := range w.state.Traces.CollectInfo() {
			w.metrics.setTraceLogicalCompaction(info.Name, info.Logical)
		}
	case CollectInternal:
		ctl.Reply <- WorkerStats{
			Index:        w.index,
			Frontier:     w.state.Frontier,
			UpsertInputs: w.state.Upserts.CollectInfo(),
			BatchInputs:  w.state.Batches.CollectInfo(),
			Traces:       w.state.Traces.CollectInfo(),
		}
	case ShutdownControl:
		w.shutdown = true
	default:
		panic(fmt.Sprintf("worker: unknown control command %T", c))
	}
}

// shutdownNow resolves every pending peek with a terminal error
// instead of leaving it to hang: SPEC_FULL.md item 5.
func (w *Worker[Q, U]) shutdownNow() {
	log.WithField("worker", w.index).Debug("worker shutting down")
	pending := len(w.state.peeks)
	w.state.shutdownPeeks()
	if pending > 0 {
		w.metrics.peeksShutdown.WithLabelValues(w.app.Name()).Add(float64(pending))
	}
}
