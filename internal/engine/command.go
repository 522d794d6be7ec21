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
	"github.com/cockroachdb/ddflow/internal/util/ident"
)

// CreateCommand asks a worker to apply Alloc against its own
// WorkerState, registering a new input session, input-and-trace, or
// deriver under Name. Each worker runs Alloc against its own
// independently-built dataflow (Design Notes "Per-worker dataflow
// ownership"), so the coordinator broadcasts a CreateCommand and waits
// for every worker's reply before telling the Handle it succeeded.
type CreateCommand[Q any, U any] struct {
	Name  ident.Name
	Alloc func(*WorkerState[Q, U]) error
	Reply chan<- error
}

// ControlCommand is the sub-protocol the coordinator uses to keep
// every worker's frontier, compaction, and lifecycle in lockstep. It
// is distinct from application Query/Update traffic (spec §6).
type ControlCommand interface {
	isControlCommand()
}

// AdvanceTimestamp asserts To == frontier+1 on arrival; see
// Worker.dispatchControl.
type AdvanceTimestamp struct {
	To hlc.Time
}

func (AdvanceTimestamp) isControlCommand() {}

// CollectInternal asks a worker to report its current state on Reply.
type CollectInternal struct {
	Reply chan<- WorkerStats
}

func (CollectInternal) isControlCommand() {}

// ShutdownControl tells a worker to stop after draining its current
// command batch.
type ShutdownControl struct{}

func (ShutdownControl) isControlCommand() {}

// ServerQuery is a query dispatched to a worker at a specific,
// already-committed query time. Cancel is the channel the caller passed
// to Handle.Query; Worker.dispatchQuery does not read it.
type ServerQuery[Q any] struct {
	Query  Q
	Time   hlc.Time
	Cancel <-chan struct{}
}

// ServerCommand is the coordinator-to-worker message, matching spec
// §6's ServerCommand variants. Exactly one of Query, Update, Control,
// or Create is set.
type ServerCommand[Q any, U any] struct {
	Query   *ServerQuery[Q]
	Update  *U
	Control ControlCommand
	Create  *CreateCommand[Q, U]
}

// ClientQuery is a query submitted by a Handle. Cancel, supplied by the
// caller of Handle.Query, is copied into every ServerQuery dispatched
// on its behalf.
type ClientQuery[Q any] struct {
	Query  Q
	Cancel <-chan struct{}
}

// ClientCommand is the Handle-to-coordinator message, matching spec
// §6's ClientCommand variants. Exactly one field is set.
type ClientCommand[Q any, U any] struct {
	Query           *ClientQuery[Q]
	Update          *U
	CollectInternal chan<- SysInternal
	Create          *ClientCreate[Q, U]
	DropApp         bool
}

// ClientCreate carries a dynamic creation request (spec SPEC_FULL.md
// item 3: CreateUpsertInput / CreateUpsertInputAndTrace / CreateDerive)
// from a Handle to the coordinator.
type ClientCreate[Q any, U any] struct {
	Name  ident.Name
	Kind  Kind
	Alloc func(*WorkerState[Q, U]) error
	Reply chan<- error
}
