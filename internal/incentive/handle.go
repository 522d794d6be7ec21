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

import (
	"github.com/cockroachdb/ddflow/internal/engine"
)

// Handle is the typed, application-facing wrapper app.rs's
// IncentiveHandle plays: it hides the generic engine.Handle[Query,
// Update] behind named methods matching the Rust source's
// upsert_belonging/query_sales_revenue_accu surface.
type Handle struct {
	inner   *engine.Handle[Query, Update]
	workers int
}

// Start launches the incentive application with the given worker
// count, returning a Handle and a cleanup function, following the
// (value, cleanup, error) shape of engine.Start.
func Start(workers int) (*Handle, func(), error) {
	h, cleanup, err := engine.Start[Query, Update](App{}, engine.Config{Workers: workers})
	if err != nil {
		return nil, nil, err
	}
	return &Handle{inner: h, workers: workers}, cleanup, nil
}

// UpsertBelonging submits a Belonging upsert.
func (h *Handle) UpsertBelonging(b Belonging) {
	h.inner.Update(Update{UpsertBelonging: &b})
}

// DeleteBelonging retracts the Belonging record for (uid, month).
func (h *Handle) DeleteBelonging(uid uint64, month Month) {
	key := BelongingKey{UID: uid, Month: month}
	h.inner.Update(Update{DeleteBelonging: &key})
}

// UpsertSalesOrg submits a SalesOrg upsert.
func (h *Handle) UpsertSalesOrg(s SalesOrg) {
	h.inner.Update(Update{UpsertSalesOrg: &s})
}

// DeleteSalesOrg retracts the SalesOrg record for (sales_ldap, month).
func (h *Handle) DeleteSalesOrg(salesLdap string, month Month) {
	key := SalesOrgKey{SalesLdap: salesLdap, Month: month}
	h.inner.Update(Update{DeleteSalesOrg: &key})
}

// UpsertRevenue submits a Revenue upsert.
func (h *Handle) UpsertRevenue(r Revenue) {
	h.inner.Update(Update{UpsertRevenue: &r})
}

// DeleteRevenue retracts the Revenue record for (uid, month).
func (h *Handle) DeleteRevenue(uid uint64, month Month) {
	key := RevenueKey{UID: uid, Month: month}
	h.inner.Update(Update{DeleteRevenue: &key})
}

// QuerySalesRevenueAccu queries sales_ldap's rolled-up revenue for
// month. The coordinator broadcasts every query to all workers rather
// than sharding it (internal/engine/coordinator.go's dispatch), and
// this app replicates its derived state identically on every worker,
// so every worker answers independently. QuerySalesRevenueAccu drains
// exactly h.workers replies and aggregates them the way app.rs's
// query_sales_revenue_accu drains its unbounded channel: accumulate
// errors across every reply, and keep the last non-zero revenue.
func (h *Handle) QuerySalesRevenueAccu(salesLdap string, month Month) (int64, []DataflowError) {
	reply := make(chan QueryResult, h.workers)
	h.inner.Query(Query{SalesRevenueAccu: &QuerySalesRevenueAccu{
		SalesLdap: salesLdap,
		Month:     month,
		Reply:     reply,
	}}, nil)

	var revenue int64
	var errs []DataflowError
	for i := 0; i < h.workers; i++ {
		result := <-reply
		if result.Revenue != 0 {
			revenue = result.Revenue
		}
		errs = append(errs, result.Errs...)
	}
	return revenue, errs
}

// CollectInternalData gathers a SysInternal snapshot.
func (h *Handle) CollectInternalData() engine.SysInternal {
	return h.inner.CollectInternalData()
}

// Close triggers coordinated shutdown.
func (h *Handle) Close() {
	h.inner.Close()
}
