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
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBindDefaults(t *testing.T) {
	var cfg Config
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.Bind(flags)
	require.NoError(t, flags.Parse(nil))

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.StopTimeout)
}

func TestConfigBindOverrides(t *testing.T) {
	var cfg Config
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.Bind(flags)
	require.NoError(t, flags.Parse([]string{"--workers", "4", "--stopTimeout", "2s"}))

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.StopTimeout)
}

func TestConfigPreflightRejectsNonPositiveWorkers(t *testing.T) {
	cfg := Config{Workers: 0}
	assert.Error(t, cfg.Preflight())

	cfg = Config{Workers: -1}
	assert.Error(t, cfg.Preflight())
}

func TestConfigPreflightFillsDefaultTimeout(t *testing.T) {
	cfg := Config{Workers: 2}
	require.NoError(t, cfg.Preflight())
	assert.Equal(t, 5*time.Second, cfg.StopTimeout)
}
