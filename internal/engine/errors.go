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
	"github.com/pkg/errors"
)

// Sentinel errors for the taxonomy described in the error-handling
// design: name conflicts, not-found lookups, and worker startup
// failure are all synchronous, client-visible conditions. Application
// dataflow errors (uniqueness, dangling references, cycles) are not
// modeled here; they travel through an application-defined error trace
// instead, per the peek contract.
var (
	// ErrNameConflict is wrapped with the offending Name.
	ErrNameConflict = errors.New("name already registered")
	// ErrNotFound is wrapped with the offending Name.
	ErrNotFound = errors.New("name not found")
	// ErrWorkerStartup indicates the worker pool could not be created.
	ErrWorkerStartup = errors.New("worker pool failed to start")
	// ErrShuttingDown is the terminal reply sent to any peek still
	// outstanding when a worker shuts down.
	ErrShuttingDown = errors.New("engine is shutting down")
)

// NameConflictError wraps ErrNameConflict with the specific Name.
func NameConflictError(name ident.Name) error {
	return errors.Wrapf(ErrNameConflict, "name %q", name.String())
}

// NotFoundError wraps ErrNotFound with the specific Name.
func NotFoundError(name ident.Name) error {
	return errors.Wrapf(ErrNotFound, "name %q", name.String())
}
