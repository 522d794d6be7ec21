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

import "sort"

// Subordinate computes, for a snapshot of SalesOrg records, the
// reflexive-transitive reporting closure plus the three dataflow
// errors dataflows/subordinate.rs detects. It is grounded on that
// file's pure subordinate() function: where the Rust source expresses
// the closure as an iterate-to-fixpoint differential-dataflow
// operator (out of scope per spec §1, "the dataflow operator library
// ... used by example applications" is an excluded collaborator),
// this recomputes the same fixpoint directly over a plain slice, the
// same way Reconciler (internal/engine/reconcile.go) replaces
// incremental diffs with from-scratch recomputation against a Trace.
//
// Records are grouped by Month first: reporting lines never cross
// months. Within a month:
//   - NonUnique fires once per sales_ldap whose live record count is
//     not exactly 1 (spec §8 S6). Note this can only be observed by
//     calling Subordinate directly against a raw slice containing
//     duplicate keys, as in this package's tests: records reaching
//     Subordinate through an upsert session (app.go's Dataflow) are
//     already deduplicated to one live value per (sales_ldap, month)
//     by UpsertSession.AdvanceTo, the same way the Rust app can only
//     ever present subordinate() with an upsert-arranged (and
//     therefore already-unique) collection. The check exists because
//     Subordinate's contract does not assume its caller deduplicated.
//   - InvalidLeader fires once per named leader LDAP that is not
//     itself a known sales_ldap for the month (spec §8 S3).
//   - Cycle fires once per sales_ldap whose reporting chain loops back
//     to itself (spec §8 S5); the ok closure is still fully populated
//     for every node on or feeding into the cycle.
func Subordinate(orgs []SalesOrg) (ok []SalesSubordinate, errs []DataflowError) {
	byMonth := make(map[Month][]SalesOrg)
	for _, o := range orgs {
		byMonth[o.Month] = append(byMonth[o.Month], o)
	}

	for month, monthOrgs := range byMonth {
		okMonth, errsMonth := subordinateForMonth(month, monthOrgs)
		ok = append(ok, okMonth...)
		errs = append(errs, errsMonth...)
	}
	return ok, errs
}

func subordinateForMonth(month Month, orgs []SalesOrg) (ok []SalesSubordinate, errs []DataflowError) {
	counts := make(map[string]int64)
	edges := make(map[string][]string)
	knownLdaps := make(map[string]bool)
	leaders := make(map[string]bool)
	var ldapOrder []string

	for _, o := range orgs {
		if counts[o.SalesLdap] == 0 {
			ldapOrder = append(ldapOrder, o.SalesLdap)
		}
		counts[o.SalesLdap]++
		knownLdaps[o.SalesLdap] = true
		if o.HasLeader {
			edges[o.SalesLdap] = append(edges[o.SalesLdap], o.Leader)
			leaders[o.Leader] = true
		}
	}

	for _, ldap := range ldapOrder {
		if c := counts[ldap]; c != 1 {
			errs = append(errs, NonUnique{SalesLdap: ldap, Month: month, Count: c})
		}
	}

	var leaderOrder []string
	for l := range leaders {
		leaderOrder = append(leaderOrder, l)
	}
	sort.Strings(leaderOrder)
	for _, l := range leaderOrder {
		if !knownLdaps[l] {
			errs = append(errs, InvalidLeader{SalesLdap: l, Month: month})
		}
	}

	for _, ldap := range ldapOrder {
		ok = append(ok, SalesSubordinate{SalesLdap: ldap, SubordinateLdap: ldap, Month: month})

		reachable := reachableFrom(edges, ldap)
		var ancestorOrder []string
		for a := range reachable {
			ancestorOrder = append(ancestorOrder, a)
		}
		sort.Strings(ancestorOrder)
		for _, ancestor := range ancestorOrder {
			if ancestor == ldap {
				errs = append(errs, Cycle{SalesLdap: ldap, Month: month})
				continue
			}
			ok = append(ok, SalesSubordinate{SalesLdap: ancestor, SubordinateLdap: ldap, Month: month})
		}
	}

	return ok, errs
}

// reachableFrom returns every node reachable from start by following
// one or more edges (start's own leader, that leader's leader, and so
// on), including start itself if a cycle leads back to it. edges may
// hold more than one outgoing edge per node when NonUnique records
// are present, matching the Rust source treating "leader" as a plain
// relation rather than a function during closure computation.
func reachableFrom(edges map[string][]string, start string) map[string]bool {
	visited := make(map[string]bool)
	queued := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range edges[n] {
			visited[next] = true
			if !queued[next] {
				queued[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
