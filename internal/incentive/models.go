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

// Package incentive is the org-hierarchy / revenue aggregator example
// application described in spec §8 scenarios S2-S6: it is carried in
// full from original_source/examples/incentive, grounded on
// models.rs, error.rs, app.rs and the dataflows/ package, and wired
// against the engine the way internal/engine/app.go expects an
// application to be wired.
package incentive

import "fmt"

// Month is a yyyyMM value, e.g. 202401, following models.rs's Month
// type alias.
type Month = uint64

// BelongingKey is the upsert key for a Belonging record: models.rs's
// impl UpsertInput for Belonging returns (uid, month).
type BelongingKey struct {
	UID   uint64
	Month Month
}

// Belonging records which sales LDAP a user's revenue belongs to for
// a given month.
type Belonging struct {
	UID       uint64
	SalesLdap string
	Month     Month
}

// Key implements engine.UpsertRecord.
func (b Belonging) Key() BelongingKey {
	return BelongingKey{UID: b.UID, Month: b.Month}
}

func (b Belonging) String() string {
	return fmt.Sprintf("Belonging{uid=%d, sales=%q, month=%d}", b.UID, b.SalesLdap, b.Month)
}

// SalesOrgKey is the upsert key for a SalesOrg record: (sales_ldap, month).
type SalesOrgKey struct {
	SalesLdap string
	Month     Month
}

// SalesOrg records one sales LDAP's reporting line for a month.
// HasLeader distinguishes "no leader" from "leader is the empty
// string", standing in for models.rs's Option<String> (Go pointers to
// string are not comparable by value, which the engine's Trace
// requires of its Value type parameter).
type SalesOrg struct {
	SalesLdap string
	Leader    string
	HasLeader bool
	Month     Month
}

// Key implements engine.UpsertRecord.
func (s SalesOrg) Key() SalesOrgKey {
	return SalesOrgKey{SalesLdap: s.SalesLdap, Month: s.Month}
}

func (s SalesOrg) String() string {
	if !s.HasLeader {
		return fmt.Sprintf("SalesOrg{sales=%q, leader=<none>, month=%d}", s.SalesLdap, s.Month)
	}
	return fmt.Sprintf("SalesOrg{sales=%q, leader=%q, month=%d}", s.SalesLdap, s.Leader, s.Month)
}

// RevenueKey is the upsert key for a Revenue record: (uid, month).
type RevenueKey struct {
	UID   uint64
	Month Month
}

// Revenue records one user's revenue contribution for a month.
type Revenue struct {
	UID     uint64
	Amount  int64
	Month   Month
}

// Key implements engine.UpsertRecord.
func (r Revenue) Key() RevenueKey {
	return RevenueKey{UID: r.UID, Month: r.Month}
}

func (r Revenue) String() string {
	return fmt.Sprintf("Revenue{uid=%d, amount=%d, month=%d}", r.UID, r.Amount, r.Month)
}

// SalesSubordinate is one edge of the transitive reporting closure
// computed by Subordinate: subordinateLdap reports up to salesLdap,
// directly or transitively (including the reflexive salesLdap==
// subordinateLdap pair every known LDAP carries).
type SalesSubordinate struct {
	SalesLdap       string
	SubordinateLdap string
	Month           Month
}

// SalesMonthKey keys a derived collection by (sales_ldap, month): the
// shape typedef.rs calls SalesMonthKey.
type SalesMonthKey struct {
	SalesLdap string
	Month     Month
}

// SalesRevenue is one sales LDAP's revenue for a month: either the
// direct sum of its own reports' revenue (sales_revenue.rs) or the
// rolled-up sum across its full subordinate closure
// (sales_revenue_accu.rs), depending which Reconciler wrote it.
type SalesRevenue struct {
	SalesLdap string
	Revenue   int64
	Month     Month
}

// Key groups a SalesRevenue by its (sales_ldap, month) identity.
func (r SalesRevenue) Key() SalesMonthKey {
	return SalesMonthKey{SalesLdap: r.SalesLdap, Month: r.Month}
}
