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

// WorkerStats is one worker's introspection snapshot, gathered by
// ControlCommand::CollectInternal and merged into a SysInternal by the
// coordinator.
type WorkerStats struct {
	Index         int
	Frontier      hlc.Time
	UpsertInputs  []BundleInfo
	BatchInputs   []BundleInfo
	Traces        []TraceInfo
}

// SysCoord is the coordinator's own introspection view.
type SysCoord struct {
	Workers  int
	Frontier hlc.Time
}

// SysInternal is the full inspection record returned by
// Handle.CollectInternalData: spec §6's "Persisted state layout"
// entry, restored in full per SPEC_FULL.md item 2.
type SysInternal struct {
	Coord   SysCoord
	Workers []WorkerStats
}
