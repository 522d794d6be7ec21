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

// Command ddflow drives the incentive example application (spec §8
// scenarios S2-S5) against a live engine.Coordinator and prints the
// result of one query, selected by a positional numeric argument, the
// way spec §6's "CLI / env vars" describes example binaries working:
// "accept a positional numeric argument to select a query."
package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/ddflow/internal/engine"
	"github.com/cockroachdb/ddflow/internal/incentive"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var scenarios = []func(*incentive.Handle){
	scenarioAcyclic,        // 0: spec §8 S2
	scenarioDanglingLeader, // 1: spec §8 S3
	scenarioSubordinate,    // 2: spec §8 S4
	scenarioCycle,          // 3: spec §8 S5
	scenarioInvalidLeader,  // 4: spec §8 S3's error path in isolation
}

func main() {
	var cfg engine.Config
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := cfg.Preflight(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	scenario := 0
	if pflag.NArg() > 0 {
		n, err := strconv.Atoi(pflag.Arg(0))
		if err != nil || n < 0 || n >= len(scenarios) {
			log.WithField("arg", pflag.Arg(0)).Fatalf("scenario must be an integer in [0, %d)", len(scenarios))
		}
		scenario = n
	}

	handle, cleanup, err := incentive.Start(cfg.Workers)
	if err != nil {
		log.WithError(err).Fatal("failed to start engine")
	}
	defer cleanup()

	scenarios[scenario](handle)
}

// printRevenue queries sales_ldap's rolled-up revenue for month and
// prints either the result or the dataflow errors blocking it.
func printRevenue(handle *incentive.Handle, salesLdap string, month incentive.Month) {
	revenue, errs := handle.QuerySalesRevenueAccu(salesLdap, month)
	if len(errs) > 0 {
		fmt.Printf("sales_revenue_accu(%q, %d) -> errors:\n", salesLdap, month)
		for _, e := range errs {
			fmt.Printf("  %v\n", e)
		}
		return
	}
	fmt.Printf("sales_revenue_accu(%q, %d) = %d\n", salesLdap, month, revenue)
}

const demoMonth incentive.Month = 202401

// scenarioAcyclic reproduces spec §8 S2: a single leaf contributor
// with no leader rolls its own revenue up to itself.
func scenarioAcyclic(h *incentive.Handle) {
	h.UpsertBelonging(incentive.Belonging{UID: 1, SalesLdap: "s1", Month: demoMonth})
	h.UpsertRevenue(incentive.Revenue{UID: 1, Amount: 3, Month: demoMonth})
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "s1", Month: demoMonth})
	printRevenue(h, "s1", demoMonth)
}

// scenarioDanglingLeader reproduces spec §8 S3: s1 reports to s2
// before s2 exists, then s2 is upserted and both queries resolve.
func scenarioDanglingLeader(h *incentive.Handle) {
	h.UpsertBelonging(incentive.Belonging{UID: 1, SalesLdap: "s1", Month: demoMonth})
	h.UpsertRevenue(incentive.Revenue{UID: 1, Amount: 3, Month: demoMonth})
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "s1", Month: demoMonth})
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "s1", Leader: "s2", HasLeader: true, Month: demoMonth})
	printRevenue(h, "s1", demoMonth)

	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "s2", Month: demoMonth})
	printRevenue(h, "s1", demoMonth)
	printRevenue(h, "s2", demoMonth)
}

// scenarioSubordinate reproduces spec §8 S4: a second direct report
// under s2 rolls up alongside s1's.
func scenarioSubordinate(h *incentive.Handle) {
	scenarioDanglingLeader(h)
	h.UpsertBelonging(incentive.Belonging{UID: 2, SalesLdap: "s2", Month: demoMonth})
	h.UpsertRevenue(incentive.Revenue{UID: 2, Amount: 5, Month: demoMonth})
	printRevenue(h, "s2", demoMonth)
}

// scenarioCycle reproduces spec §8 S5: a and b each name the other as
// leader.
func scenarioCycle(h *incentive.Handle) {
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "a", Leader: "b", HasLeader: true, Month: demoMonth})
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "b", Leader: "a", HasLeader: true, Month: demoMonth})
	printRevenue(h, "a", demoMonth)
	printRevenue(h, "b", demoMonth)
}

// scenarioInvalidLeader demonstrates the InvalidLeader error path in
// isolation, left unresolved. Spec §8 S6's NonUnique error is not
// reachable through this CLI: an upsert input deduplicates to one live
// value per key before Subordinate ever sees it (see
// internal/incentive/subordinate.go's doc comment), so NonUnique is
// exercised directly against Subordinate in
// internal/incentive/subordinate_test.go instead.
func scenarioInvalidLeader(h *incentive.Handle) {
	h.UpsertSalesOrg(incentive.SalesOrg{SalesLdap: "s1", Leader: "ghost", HasLeader: true, Month: demoMonth})
	printRevenue(h, "s1", demoMonth)
}
