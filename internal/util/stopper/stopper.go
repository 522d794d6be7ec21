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

// Package stopper provides a small goroutine-lifecycle helper. A
// Context wraps a context.Context with a WaitGroup of tracked
// goroutines and a two-phase shutdown: Stopping() is closed first (so
// a loop can wind down gracefully), and the underlying context is
// canceled only once every tracked goroutine has returned or a
// deadline passes. Every goroutine the engine spawns (the coordinator
// loop, each worker loop) is started through a Context rather than a
// bare `go func(){}()`.
package stopper

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Context tracks goroutines spawned through Go and coordinates their
// shutdown.
type Context struct {
	context.Context

	mu       sync.Mutex
	err      error
	firstErr error
	stopping chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// WithContext returns a new Context derived from parent.
func WithContext(parent context.Context) *Context {
	inner, cancel := context.WithCancel(parent)
	return &Context{
		Context:  inner,
		stopping: make(chan struct{}),
		cancel:   cancel,
	}
}

// Go runs fn in a tracked goroutine. If fn returns a non-nil error,
// the Context begins stopping, so that other tracked goroutines
// observe Stopping() and can wind down too.
func (c *Context) Go(fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(); err != nil {
			c.mu.Lock()
			if c.firstErr == nil {
				c.firstErr = err
			}
			c.mu.Unlock()
			c.beginStop()
		}
	}()
}

// Stopping returns a channel that is closed once shutdown has begun.
// A loop selects on this alongside its regular work to know it should
// wind down.
func (c *Context) Stopping() <-chan struct{} {
	return c.stopping
}

// Stop begins shutdown (if not already begun) and blocks until every
// tracked goroutine has returned or timeout elapses, whichever comes
// first. It returns the first error (if any) returned by a tracked
// goroutine.
func (c *Context) Stop(timeout time.Duration) error {
	c.beginStop()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		c.cancel()
		return errors.New("stopper: timed out waiting for goroutines to exit")
	}

	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firstErr
}

func (c *Context) beginStop() {
	c.stopOnce.Do(func() {
		close(c.stopping)
	})
}
