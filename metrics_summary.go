// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"slices"
	"sync"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/metrics"
)

// metricsSummary totals the metrics recorded during a replay: counters are
// summed, gauges keep their last value.
type metricsSummary struct {
	mu     sync.Mutex
	defs   map[uint32]metrics.MetricDefinition
	values map[uint32]int64
}

var _ metrics.Reporter = &metricsSummary{}

func newMetricsSummary() *metricsSummary {
	defs := make(map[uint32]metrics.MetricDefinition)
	for _, md := range metrics.GetDefinitions() {
		defs[uint32(md.ID)] = md
	}
	return &metricsSummary{
		defs:   defs,
		values: make(map[uint32]int64),
	}
}

func (s *metricsSummary) ReportMetrics(ids []uint32, values []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		if s.defs[id].Type == metrics.MetricTypeGauge {
			s.values[id] = values[i]
			continue
		}
		s.values[id] += values[i]
	}
}

// lines returns one "name: value" line per recorded metric, ordered by ID.
func (s *metricsSummary) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint32, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		name := s.defs[id].Name
		if name == "" {
			name = fmt.Sprintf("metric %d", id)
		}
		out = append(out, fmt.Sprintf("%s: %d", name, s.values[id]))
	}
	return out
}

func (s *metricsSummary) log() {
	for _, line := range s.lines() {
		log.Debug(line)
	}
}
