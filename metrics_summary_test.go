// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.opentelemetry.io/jitprofiling/metrics"
)

func TestMetricsSummary(t *testing.T) {
	summary := newMetricsSummary()
	metrics.SetReporter(summary)
	t.Cleanup(func() { metrics.SetReporter(nil) })

	metrics.Add(metrics.IDTranslationsReported, 1)
	metrics.Add(metrics.IDSymtabMethods, 3)
	metrics.Add(metrics.IDTranslationsReported, 2)
	metrics.Add(metrics.IDSymtabMethods, 5)

	assert.Equal(t, []string{
		"TranslationsReported: 3",
		"SymtabMethods: 5",
	}, summary.lines())
}

func TestMetricsSummaryUnknownID(t *testing.T) {
	summary := newMetricsSummary()
	summary.ReportMetrics([]uint32{99, 99}, []int64{1, 4})
	assert.Equal(t, []string{"metric 99: 5"}, summary.lines())
}
