// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct {
	result [][]Metric
}

func (f *fakeReporter) ReportMetrics(ids []uint32, values []int64) {
	metricsResult := make([]Metric, len(ids))
	for j := range ids {
		metricsResult[j].ID = MetricID(ids[j])
		metricsResult[j].Value = MetricValue(values[j])
	}
	f.result = append(f.result, metricsResult)
}

func TestMetrics(t *testing.T) {
	reporter := &fakeReporter{}
	SetReporter(reporter)
	t.Cleanup(func() { SetReporter(nil) })

	AddSlice([]Metric{
		{IDTranslationsReported, 1},
		{IDLineTableRows, 0},
		{IDMax, 3},
		{IDSymtabMethods, 0},
	})
	Add(IDMappingEntriesDropped, 2)
	Add(IDInvalid, 1)
	AddSlice(nil)

	assert.Equal(t, [][]Metric{
		{{IDTranslationsReported, 1}, {IDSymtabMethods, 0}},
		{{IDMappingEntriesDropped, 2}},
	}, reporter.result)
}

func TestGetDefinitions(t *testing.T) {
	defs := GetDefinitions()
	require.Len(t, defs, IDMax-1)

	seen := make(map[MetricID]bool)
	for _, d := range defs {
		assert.False(t, seen[d.ID], "duplicate id %d", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Field)
		assert.Contains(t, []MetricType{MetricTypeCounter, MetricTypeGauge}, d.Type)
	}
}
