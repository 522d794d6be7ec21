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

// newAccuPeek builds the PeekTask behind QuerySalesRevenueAccu. It is
// hand-rolled rather than built from
// internal/engine/peek.go's NewTracePeekWithErrors because app.rs's
// handle_query checks the error trace globally (collect_key_trace
// scans every key) rather than scoped to the query's own key: a
// dangling-leader or cycle error anywhere in the error trace, for any
// month, blocks every query, not just the one naming the bad LDAP
// (spec §8 S3 queries "s1" and is told about an error keyed to "s2").
func newAccuPeek(
	data *engine.Trace[SalesMonthKey, SalesRevenue],
	errs *engine.Trace[DataflowError, DataflowError],
	key SalesMonthKey,
	asOf hlc.Time,
	cancel <-chan struct{},
	reply chan<- QueryResult,
) engine.PeekTask {
	releaseData := data.Hold(asOf)
	releaseErrs := errs.Hold(asOf)
	released := false
	finish := func() {
		if !released {
			releaseData()
			releaseErrs()
			released = true
		}
	}

	return func() engine.PeekResult {
		select {
		case <-cancel:
			finish()
			return engine.Done
		default:
		}

		if !asOf.Less(data.Upper()) || !asOf.Less(errs.Upper()) {
			return engine.NotReady
		}

		if errValues := errs.AllValues(asOf); len(errValues) > 0 {
			reply <- QueryResult{Errs: errValues}
			finish()
			return engine.Done
		}

		var revenue int64
		if values := data.ReadKey(key, asOf); len(values) > 0 {
			revenue = values[0].Revenue
		}
		reply <- QueryResult{Revenue: revenue}
		finish()
		return engine.Done
	}
}
