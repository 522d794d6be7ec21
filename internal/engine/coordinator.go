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
	"github.com/cockroachdb/ddflow/internal/util/stopper"
	log "github.com/sirupsen/logrus"
)

// Coordinator is the single thread that owns the logical epoch
// counter, the catalog, and every worker's command channel (spec
// §4.7). It is driven entirely from its own goroutine (started by
// Run), so the frontier and catalog need no locking: every Handle
// call reaches the coordinator only by sending a ClientCommand on
// cmds.
type Coordinator[Q any, U any] struct {
	app     App[Q, U]
	catalog *Catalog
	metrics *Metrics

	cmds    chan ClientCommand[Q, U]
	workers []chan ServerCommand[Q, U]

	frontier hlc.Time
}

// newCoordinator constructs a Coordinator with W worker channels. It
// does not start any goroutines.
func newCoordinator[Q any, U any](app App[Q, U], workers int, metrics *Metrics) *Coordinator[Q, U] {
	c := &Coordinator[Q, U]{
		app:     app,
		catalog: NewCatalog(),
		metrics: metrics,
		cmds:    make(chan ClientCommand[Q, U]),
		workers: make([]chan ServerCommand[Q, U], workers),
	}
	for i := range c.workers {
		c.workers[i] = make(chan ServerCommand[Q, U])
	}
	return c
}

// Run spawns the worker goroutines and the coordinator's own command
// loop through ctx, bootstraps the frontier to 1 (spec §4.7 step 1:
// "the very first query time is therefore 0 and the first update
// lands at time 1"), and returns once every worker has received
// ShutdownControl; it does not wait for the workers to exit.
func (c *Coordinator[Q, U]) Run(ctx *stopper.Context) error {
	for i, ch := range c.workers {
		w := NewWorker[Q, U](i, c.app, ch, c.metrics)
		ctx.Go(func() error { return w.Run(ctx) })
	}

	c.frontier = c.frontier.StepForward()
	c.broadcast(ServerCommand[Q, U]{Control: AdvanceTimestamp{To: c.frontier}})

	for {
		select {
		case cmd, ok := <-c.cmds:
			if !ok {
				c.shutdownWorkers()
				return nil
			}
			if cmd.DropApp {
				c.shutdownWorkers()
				return nil
			}
			c.dispatch(cmd)
		case <-ctx.Stopping():
			c.shutdownWorkers()
			return nil
		}
	}
}

func (c *Coordinator[Q, U]) broadcast(cmd ServerCommand[Q, U]) {
	for _, ch := range c.workers {
		ch <- cmd
	}
}

func (c *Coordinator[Q, U]) shutdownWorkers() {
	c.broadcast(ServerCommand[Q, U]{Control: ShutdownControl{}})
}

func (c *Coordinator[Q, U]) dispatch(cmd ClientCommand[Q, U]) {
	switch {
	case cmd.Query != nil:
		queryTime, _ := c.frontier.StepBack()
		c.broadcast(ServerCommand[Q, U]{Query: &ServerQuery[Q]{
			Query:  cmd.Query.Query,
			Time:   queryTime,
			Cancel: cmd.Query.Cancel,
		}})

	case cmd.Update != nil:
		// Every worker owns a fully independent WorkerState (worker.go's
		// NewWorkerState: its own Traces/Upserts/Batches, nothing
		// shared), and no cross-worker exchange path exists here (the
		// operator library that would redistribute data across workers
		// is out of scope per spec §1) — so the update itself must reach
		// every worker, not just one. broadcast enqueues the update and
		// the subsequent AdvanceTimestamp to every worker, in order,
		// before any worker can observe the second without the first
		// (spec §5, SPEC_FULL.md item 4).
		c.broadcast(ServerCommand[Q, U]{Update: cmd.Update})
		c.frontier = c.frontier.StepForward()
		c.broadcast(ServerCommand[Q, U]{Control: AdvanceTimestamp{To: c.frontier}})

	case cmd.CollectInternal != nil:
		replies := make(chan WorkerStats, len(c.workers))
		c.broadcast(ServerCommand[Q, U]{Control: CollectInternal{Reply: replies}})
		stats := make([]WorkerStats, 0, len(c.workers))
		for range c.workers {
			stats = append(stats, <-replies)
		}
		cmd.CollectInternal <- SysInternal{
			Coord:   SysCoord{Workers: len(c.workers), Frontier: c.frontier},
			Workers: stats,
		}

	case cmd.Create != nil:
		if _, err := c.catalog.Register(cmd.Create.Name, cmd.Create.Kind); err != nil {
			cmd.Create.Reply <- err
			return
		}
		replies := make(chan error, len(c.workers))
		c.broadcast(ServerCommand[Q, U]{Create: &CreateCommand[Q, U]{
			Name:  cmd.Create.Name,
			Alloc: cmd.Create.Alloc,
			Reply: replies,
		}})
		var first error
		for range c.workers {
			if err := <-replies; err != nil && first == nil {
				first = err
			}
		}
		if first != nil {
			c.catalog.entries.Delete(cmd.Create.Name)
		}
		cmd.Create.Reply <- first

	default:
		log.Warn("coordinator: empty ClientCommand")
	}
}
