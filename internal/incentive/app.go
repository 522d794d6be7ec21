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
	"github.com/cockroachdb/ddflow/internal/util/hlc"
)

// accuMarker and errMarker are type-identity tokens for the two
// traces App registers: the engine keys a TraceGroup/UpsertInputGroup
// entry by static type identity (internal/engine/trace_group.go's
// recordType), and these two collections have no natural Go record
// type of their own to key by (the accu trace is keyed by
// SalesMonthKey but several collections could share that shape), so
// we mint dedicated marker types the way Design Notes ("Heterogeneous
// handle registries") describes: "a user-provided string tag" made
// concrete as a zero-size type.
type accuMarker struct{}
type errMarker struct{}

// App implements engine.App[Query, Update]: the org-hierarchy /
// revenue aggregator example, carried over in full from
// original_source/examples/incentive/app.rs (SPEC_FULL.md item 6).
type App struct{}

// Name implements engine.App.
func (App) Name() string { return "incentive" }

// Dataflow implements engine.App: it allocates the three upsert
// inputs, registers the two traces a query can read (sales revenue
// accumulation and dataflow errors), and registers the single Deriver
// that recomputes both from scratch on every frontier advance, the
// role app.rs's dataflow() plays by constructing a differential
// timely scope.
func (App) Dataflow(state *engine.WorkerState[Query, Update]) {
	belonging := engine.AllocUpsertInput[Belonging, BelongingKey](state.Upserts, "belonging")
	salesOrg := engine.AllocUpsertInput[SalesOrg, SalesOrgKey](state.Upserts, "sales_org")
	revenue := engine.AllocUpsertInput[Revenue, RevenueKey](state.Upserts, "revenue")

	accuTrace := engine.NewTrace[SalesMonthKey, SalesRevenue]()
	errTrace := engine.NewTrace[DataflowError, DataflowError]()
	engine.RegisterTrace[accuMarker](state.Traces, "sales_revenue_accu", accuTrace)
	engine.RegisterTrace[errMarker](state.Traces, "sales_org_errors", errTrace)

	accuRecon := engine.NewReconciler[SalesMonthKey, SalesRevenue](accuTrace)
	errRecon := engine.NewReconciler[DataflowError, DataflowError](errTrace)

	state.RegisterDeriver(func(asOf hlc.Time) error {
		orgs := flattenSnapshot(salesOrg.Trace().Snapshot(asOf))
		belongings := flattenSnapshot(belonging.Trace().Snapshot(asOf))
		revenues := flattenSnapshot(revenue.Trace().Snapshot(asOf))

		subordinates, errs := Subordinate(orgs)
		direct := SalesRevenueDirect(belongings, revenues)
		accu := SalesRevenueAccu(subordinates, direct)

		accuDesired := make(map[SalesMonthKey][]SalesRevenue, len(accu))
		for _, r := range accu {
			key := r.Key()
			accuDesired[key] = append(accuDesired[key], r)
		}
		errDesired := make(map[DataflowError][]DataflowError, len(errs))
		for _, e := range errs {
			errDesired[e.Key()] = []DataflowError{e}
		}

		accuRecon.Reconcile(asOf, accuDesired)
		errRecon.Reconcile(asOf, errDesired)
		return nil
	})
}

// HandleQuery implements engine.App: it translates Query into a peek
// task reading both traces Dataflow registered.
func (App) HandleQuery(query Query, time hlc.Time, state *engine.WorkerState[Query, Update]) {
	switch {
	case query.SalesRevenueAccu != nil:
		q := query.SalesRevenueAccu
		accuTrace, _ := engine.GetTrace[accuMarker, SalesMonthKey, SalesRevenue](state.Traces)
		errTrace, _ := engine.GetTrace[errMarker, DataflowError, DataflowError](state.Traces)
		key := SalesMonthKey{SalesLdap: q.SalesLdap, Month: q.Month}
		state.PushPeek(
			newAccuPeek(accuTrace, errTrace, key, time, q.Cancel, q.Reply),
			func() { q.Reply <- QueryResult{Err: engine.ErrShuttingDown} },
		)
	}
}

// HandleUpdate implements engine.App: it translates Update into
// upsert-input-group calls, following app.rs's handle_update match.
func (App) HandleUpdate(update Update, state *engine.WorkerState[Query, Update]) {
	belonging, _ := engine.GetUpsertSession[Belonging, BelongingKey](state.Upserts)
	salesOrg, _ := engine.GetUpsertSession[SalesOrg, SalesOrgKey](state.Upserts)
	revenue, _ := engine.GetUpsertSession[Revenue, RevenueKey](state.Upserts)

	switch {
	case update.UpsertBelonging != nil:
		b := *update.UpsertBelonging
		belonging.Upsert(b.Key(), b)
	case update.DeleteBelonging != nil:
		belonging.Delete(*update.DeleteBelonging)
	case update.UpsertSalesOrg != nil:
		s := *update.UpsertSalesOrg
		salesOrg.Upsert(s.Key(), s)
	case update.DeleteSalesOrg != nil:
		salesOrg.Delete(*update.DeleteSalesOrg)
	case update.UpsertRevenue != nil:
		r := *update.UpsertRevenue
		revenue.Upsert(r.Key(), r)
	case update.DeleteRevenue != nil:
		revenue.Delete(*update.DeleteRevenue)
	}
}

// flattenSnapshot discards the key grouping of a Trace.Snapshot
// result: the pure dataflow functions above (Subordinate,
// SalesRevenueDirect) each derive their own grouping from the record
// fields, the same way app.rs hands subordinate() and sales_revenue()
// a flat Collection rather than something pre-grouped by key.
func flattenSnapshot[K comparable, V comparable](snapshot map[K][]V) []V {
	var out []V
	for _, values := range snapshot {
		out = append(out, values...)
	}
	return out
}
