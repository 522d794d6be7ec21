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

//go:build !wireinject
// +build !wireinject

package engine

import (
	"context"

	"github.com/cockroachdb/ddflow/internal/util/stopper"
	"github.com/pkg/errors"
)

// Start wires a Coordinator and a Handle together and launches them
// through a stopper.Context, following the same (value, cleanup, err)
// shape as the hand-maintained wire_gen.go constructors elsewhere in
// the tree. Real `wire` codegen is not invoked; this file plays the
// role the generated file would.
func Start[Q any, U any](app App[Q, U], cfg Config) (*Handle[Q, U], func(), error) {
	if err := cfg.Preflight(); err != nil {
		return nil, nil, errors.Wrap(err, "engine: invalid configuration")
	}

	metrics := NewMetrics()
	coord := newCoordinator[Q, U](app, cfg.Workers, metrics)

	stop := stopper.WithContext(context.Background())
	runErr := make(chan error, 1)
	stop.Go(func() error {
		err := coord.Run(stop)
		runErr <- err
		return err
	})

	handle := &Handle[Q, U]{cmds: coord.cmds}

	cleanup := func() {
		handle.Close()
		_ = stop.Stop(cfg.StopTimeout)
	}
	return handle, cleanup, nil
}
