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

// Query is the Q type parameter App supplies to engine.App: exactly
// one field is set, mirroring app.rs's Query enum (it has a single
// variant today; the struct-of-optional-pointers shape matches
// ClientCommand/ServerCommand in internal/engine/command.go so adding
// a second query kind later needs no protocol redesign).
type Query struct {
	SalesRevenueAccu *QuerySalesRevenueAccu
}

// QuerySalesRevenueAccu asks for sales_ldap's rolled-up revenue for
// month; every worker replies on Reply exactly once. Cancel, if closed by the
// caller, lets the peek harness drop the task without holding back
// trace compaction.
type QuerySalesRevenueAccu struct {
	SalesLdap string
	Month     Month
	Cancel    <-chan struct{}
	Reply     chan<- QueryResult
}

// QueryResult is the reply to a QuerySalesRevenueAccu: exactly one of
// Revenue (on success, with Errs empty), Errs (non-empty, on a
// dataflow error), or Err (set only by App's onShutdown callback, per
// SPEC_FULL.md item 5) is meaningful.
type QueryResult struct {
	Revenue int64
	Errs    []DataflowError
	Err     error
}

// Update is the U type parameter App supplies to engine.App: exactly
// one field is set, mirroring app.rs's Update enum.
type Update struct {
	UpsertBelonging *Belonging
	DeleteBelonging *BelongingKey
	UpsertSalesOrg  *SalesOrg
	DeleteSalesOrg  *SalesOrgKey
	UpsertRevenue   *Revenue
	DeleteRevenue   *RevenueKey
}
