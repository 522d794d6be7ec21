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

// Package hlc implements the engine's logical-time domain: a totally
// ordered, non-negative counter with a least element, successor,
// predecessor, and lattice join/meet. The domain is a single counter
// rather than a wall-clock/logical pair.
package hlc

import (
	"encoding/binary"
	"fmt"
)

// Time is a single logical instant. The zero value is Zero.
type Time struct {
	seq uint64
}

// Zero is the least Time.
var Zero = Time{}

// New wraps a raw counter value.
func New(seq uint64) Time {
	return Time{seq: seq}
}

// Seq returns the raw counter value.
func (t Time) Seq() uint64 {
	return t.seq
}

// String implements fmt.Stringer.
func (t Time) String() string {
	return fmt.Sprintf("T(%d)", t.seq)
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater
// than b.
func Compare(a, b Time) int {
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// Less reports whether t is strictly before o.
func (t Time) Less(o Time) bool {
	return t.seq < o.seq
}

// LessEq reports whether t is at or before o.
func (t Time) LessEq(o Time) bool {
	return t.seq <= o.seq
}

// Equal reports value equality.
func (t Time) Equal(o Time) bool {
	return t.seq == o.seq
}

// StepForward returns the successor of t. It panics on overflow, per
// the source domain's contract: the counter is not expected to wrap
// during the lifetime of a process.
func (t Time) StepForward() Time {
	if t.seq == ^uint64(0) {
		panic("hlc: StepForward overflow")
	}
	return Time{seq: t.seq + 1}
}

// TryStepForward returns the successor of t, or false if that would
// overflow.
func (t Time) TryStepForward() (Time, bool) {
	if t.seq == ^uint64(0) {
		return Time{}, false
	}
	return Time{seq: t.seq + 1}, true
}

// StepBack returns the predecessor of t and true, or the zero Time and
// false if t is already Zero.
func (t Time) StepBack() (Time, bool) {
	if t.seq == 0 {
		return Time{}, false
	}
	return Time{seq: t.seq - 1}, true
}

// Join is the lattice join: the least upper bound, which in a total
// order is max.
func Join(a, b Time) Time {
	if a.seq >= b.seq {
		return a
	}
	return b
}

// Meet is the lattice meet: the greatest lower bound, min in a total
// order.
func Meet(a, b Time) Time {
	if a.seq <= b.seq {
		return a
	}
	return b
}

// Outer is the trivial outer timestamp that Time refines into when the
// engine is nested inside a larger time domain. It carries no
// information of its own.
type Outer struct{}

// ToOuter discards t, producing the trivial outer timestamp.
func (t Time) ToOuter() Outer {
	return Outer{}
}

// FromOuter lifts the trivial outer timestamp back to the minimum
// Time; this is the refinement direction used when a nested scope
// first opens.
func FromOuter(Outer) Time {
	return Zero
}

// Bytes returns a stable, fixed-width big-endian encoding suitable for
// external replay logs.
func (t Time) Bytes() [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], t.seq)
	return b
}

// FromBytes is the inverse of Bytes.
func FromBytes(b [8]byte) Time {
	return Time{seq: binary.BigEndian.Uint64(b[:])}
}
