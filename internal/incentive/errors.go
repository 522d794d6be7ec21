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

package incentive

import "fmt"

// DataflowError is the application-level dataflow error taxonomy
// described in spec §7 ("Application-level dataflow errors... second
// output of the dataflow: an error trace parallel to the data
// trace"), grounded on error.rs's three-variant enum. Unlike the
// engine's own synchronous NameConflict/NotFound errors
// (internal/engine/errors.go), these surface only at query time
// through the error trace a peek consults.
type DataflowError interface {
	error
	// Key is the error trace's self-key: errors are arranged by
	// self (error.rs is consumed via arrange_by_self in app.rs), so
	// a DataflowError is its own trace key.
	Key() DataflowError
}

// NonUnique reports that more than one (or zero) SalesOrg record was
// live for (sales_ldap, month) when the subordinate closure was
// computed (spec §8 S6).
type NonUnique struct {
	SalesLdap string
	Month     Month
	Count     int64
}

func (e NonUnique) Error() string {
	return fmt.Sprintf("non-unique sales_org for %q/%d: count=%d", e.SalesLdap, e.Month, e.Count)
}

// Key implements DataflowError.
func (e NonUnique) Key() DataflowError { return e }

// InvalidLeader reports that a SalesOrg record named a leader LDAP
// with no corresponding SalesOrg row for that month (spec §8 S3).
type InvalidLeader struct {
	SalesLdap string
	Month     Month
}

func (e InvalidLeader) Error() string {
	return fmt.Sprintf("invalid leader %q for month %d", e.SalesLdap, e.Month)
}

// Key implements DataflowError.
func (e InvalidLeader) Key() DataflowError { return e }

// Cycle reports that sales_ldap's reporting chain loops back to
// itself (spec §8 S5).
type Cycle struct {
	SalesLdap string
	Month     Month
}

func (e Cycle) Error() string {
	return fmt.Sprintf("cycle in reporting chain at %q for month %d", e.SalesLdap, e.Month)
}

// Key implements DataflowError.
func (e Cycle) Key() DataflowError { return e }
