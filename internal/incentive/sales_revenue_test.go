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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalesRevenueDirectSumsByLdap(t *testing.T) {
	belongings := []Belonging{
		{UID: 1, SalesLdap: "b", Month: 1},
		{UID: 2, SalesLdap: "b", Month: 1},
		{UID: 3, SalesLdap: "c", Month: 1},
	}
	revenues := []Revenue{
		{UID: 1, Amount: 10, Month: 1},
		{UID: 2, Amount: 5, Month: 1},
		{UID: 3, Amount: 7, Month: 1},
	}

	out := SalesRevenueDirect(belongings, revenues)
	assert.ElementsMatch(t, []SalesRevenue{
		{SalesLdap: "b", Revenue: 15, Month: 1},
		{SalesLdap: "c", Revenue: 7, Month: 1},
	}, out)
}

func TestSalesRevenueDirectDropsZeroSums(t *testing.T) {
	belongings := []Belonging{{UID: 1, SalesLdap: "b", Month: 1}}
	revenues := []Revenue{{UID: 1, Amount: 0, Month: 1}}

	out := SalesRevenueDirect(belongings, revenues)
	assert.Empty(t, out)
}

func TestSalesRevenueDirectIgnoresUnbelongedRevenue(t *testing.T) {
	revenues := []Revenue{{UID: 99, Amount: 100, Month: 1}}
	out := SalesRevenueDirect(nil, revenues)
	assert.Empty(t, out)
}

func TestSalesRevenueAccuRollsUpThroughClosure(t *testing.T) {
	subs := []SalesSubordinate{
		{SalesLdap: "a", SubordinateLdap: "a", Month: 1},
		{SalesLdap: "a", SubordinateLdap: "b", Month: 1},
		{SalesLdap: "b", SubordinateLdap: "b", Month: 1},
	}
	direct := []SalesRevenue{
		{SalesLdap: "a", Revenue: 3, Month: 1},
		{SalesLdap: "b", Revenue: 4, Month: 1},
	}

	out := SalesRevenueAccu(subs, direct)
	assert.ElementsMatch(t, []SalesRevenue{
		{SalesLdap: "a", Revenue: 7, Month: 1},
		{SalesLdap: "b", Revenue: 4, Month: 1},
	}, out)
}

func TestSalesRevenueAccuSkipsLdapsWithNoDirectRevenue(t *testing.T) {
	subs := []SalesSubordinate{
		{SalesLdap: "a", SubordinateLdap: "a", Month: 1},
		{SalesLdap: "a", SubordinateLdap: "b", Month: 1},
	}
	out := SalesRevenueAccu(subs, nil)
	assert.Empty(t, out)
}
