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

// SalesRevenueDirect joins belonging and revenue snapshots on
// (uid, month) and sums the result by (sales_ldap, month), grounded on
// dataflows/sales_revenue.rs's join_core + reduce_named pipeline.
// Entries whose accumulated revenue is exactly zero are dropped, the
// same way the Rust reduce only pushes output when s_revenue != 0.
func SalesRevenueDirect(belongings []Belonging, revenues []Revenue) []SalesRevenue {
	bySales := make(map[UidMonth]string, len(belongings))
	for _, b := range belongings {
		bySales[UidMonth{UID: b.UID, Month: b.Month}] = b.SalesLdap
	}

	sums := make(map[SalesMonthKey]int64)
	var order []SalesMonthKey
	for _, r := range revenues {
		ldap, ok := bySales[UidMonth{UID: r.UID, Month: r.Month}]
		if !ok {
			continue
		}
		key := SalesMonthKey{SalesLdap: ldap, Month: r.Month}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += r.Amount
	}

	var out []SalesRevenue
	for _, key := range order {
		if total := sums[key]; total != 0 {
			out = append(out, SalesRevenue{SalesLdap: key.SalesLdap, Revenue: total, Month: key.Month})
		}
	}
	return out
}

// UidMonth keys the belonging/revenue join.
type UidMonth struct {
	UID   uint64
	Month Month
}

// SalesRevenueAccu rolls direct revenue up through the subordinate
// closure: sales_ldap's accumulated revenue is the sum of direct
// revenue across every LDAP in its subordinate set (including itself,
// via the reflexive pair Subordinate always emits), grounded on
// dataflows/sales_revenue_accu.rs's join_core + count_total_core
// pipeline.
func SalesRevenueAccu(subordinates []SalesSubordinate, direct []SalesRevenue) []SalesRevenue {
	directByLdap := make(map[SalesMonthKey]int64, len(direct))
	for _, d := range direct {
		directByLdap[d.Key()] += d.Revenue
	}

	sums := make(map[SalesMonthKey]int64)
	var order []SalesMonthKey
	for _, sub := range subordinates {
		subKey := SalesMonthKey{SalesLdap: sub.SubordinateLdap, Month: sub.Month}
		revenue, ok := directByLdap[subKey]
		if !ok {
			continue
		}
		key := SalesMonthKey{SalesLdap: sub.SalesLdap, Month: sub.Month}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += revenue
	}

	var out []SalesRevenue
	for _, key := range order {
		if total := sums[key]; total != 0 {
			out = append(out, SalesRevenue{SalesLdap: key.SalesLdap, Revenue: total, Month: key.Month})
		}
	}
	return out
}
