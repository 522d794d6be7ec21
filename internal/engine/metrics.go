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

package engine

import (
	"strconv"

	"github.com/cockroachdb/ddflow/internal/util/hlc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var appLabel = []string{"app"}

var (
	peeksAttemptedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ddflow_peeks_attempted_total",
		Help: "the number of times a query was dispatched to a worker as a peek task",
	}, appLabel)
	peeksShutdownTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ddflow_peeks_shutdown_total",
		Help: "the number of peeks resolved with a terminal error by worker shutdown",
	}, appLabel)
	workerFrontier = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ddflow_worker_frontier",
		Help: "the current input frontier of a worker",
	}, []string{"worker"})
	traceLogicalCompaction = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ddflow_trace_logical_compaction",
		Help: "the current logical compaction frontier of a registered trace",
	}, []string{"trace"})
)

// Metrics is a thin handle onto the package-level Prometheus
// collectors: metrics are registered once at package init via
// promauto, and every Coordinator shares the same collectors,
// distinguished by label.
type Metrics struct {
	peeksAttempted *prometheus.CounterVec
	peeksShutdown  *prometheus.CounterVec
}

// NewMetrics returns a Metrics handle onto the shared collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		peeksAttempted: peeksAttemptedTotal,
		peeksShutdown:  peeksShutdownTotal,
	}
}

func (m *Metrics) setFrontier(worker int, t hlc.Time) {
	workerFrontier.WithLabelValues(strconv.Itoa(worker)).Set(float64(t.Seq()))
}

func (m *Metrics) setTraceLogicalCompaction(trace string, t hlc.Time) {
	traceLogicalCompaction.WithLabelValues(trace).Set(float64(t.Seq()))
}
