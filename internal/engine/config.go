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
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the user-visible configuration for starting the engine.
type Config struct {
	// Workers is the size of the worker pool. Must be positive.
	Workers int
	// StopTimeout bounds how long the cleanup function returned by Start
	// waits for worker goroutines to exit during shutdown.
	StopTimeout time.Duration
}

// Bind registers flags for Config.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.IntVar(&c.Workers, "workers", 1,
		"the number of dataflow worker threads to run")
	flags.DurationVar(&c.StopTimeout, "stopTimeout", 5*time.Second,
		"how long to wait for worker goroutines to exit on shutdown")
}

// Preflight validates and fills in defaults.
func (c *Config) Preflight() error {
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = 5 * time.Second
	}
	return nil
}
