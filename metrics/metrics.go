// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metrics // import "go.opentelemetry.io/jitprofiling/metrics"

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/vc"
)

var (
	//go:embed metrics.json
	metricsJSON []byte

	// mutex serializes AddSlice against SetReporter.
	mutex sync.Mutex

	// Used to skip "counters" with 0 values and to reject unknown IDs.
	metricTypes map[MetricID]MetricType

	// OTel metric instrumentation
	meter = otel.Meter("go.opentelemetry.io/jitprofiling",
		metric.WithInstrumentationVersion(vc.Version()))
	counters = map[MetricID]metric.Int64Counter{}
	gauges   = map[MetricID]metric.Int64Gauge{}

	reporterImpl Reporter
)

// SetReporter installs r to receive every accepted metric batch. nil removes it.
func SetReporter(r Reporter) {
	mutex.Lock()
	defer mutex.Unlock()
	reporterImpl = r
}

func init() {
	defs := GetDefinitions()
	metricTypes = make(map[MetricID]MetricType, len(defs))
	for _, md := range defs {
		if md.Obsolete {
			continue
		}
		metricTypes[md.ID] = md.Type
		switch typ := md.Type; typ {
		case MetricTypeCounter:
			counter, err := meter.Int64Counter(md.Field,
				metric.WithDescription(md.Description),
				metric.WithUnit(md.Unit))
			if err != nil {
				log.Errorf("Creating Int64Counter: %v", err)
				continue
			}
			counters[md.ID] = counter
		case MetricTypeGauge:
			gauge, err := meter.Int64Gauge(md.Field,
				metric.WithDescription(md.Description),
				metric.WithUnit(md.Unit))
			if err != nil {
				log.Errorf("Creating Int64Gauge: %v", err)
				continue
			}
			gauges[md.ID] = gauge
		default:
			panic(fmt.Sprintf("Unknown metric type: %v", typ))
		}
	}
}

// AddSlice records a batch of metrics. Unknown IDs are logged and skipped,
// as are counters with a zero value.
func AddSlice(newMetrics []Metric) {
	if len(newMetrics) == 0 {
		return
	}

	ctx := context.Background()
	ids := make([]uint32, 0, len(newMetrics))
	values := make([]int64, 0, len(newMetrics))

	mutex.Lock()
	defer mutex.Unlock()

	for _, m := range newMetrics {
		if m.ID <= IDInvalid || m.ID >= IDMax {
			log.Errorf("Metric value %d out of range [%d,%d]- needs investigation",
				m.ID, IDInvalid+1, IDMax-1)
			continue
		}

		typ, ok := metricTypes[m.ID]
		if !ok {
			log.Warnf("Invalid metric id %d, skipping", m.ID)
			continue
		}

		switch typ {
		case MetricTypeCounter:
			if m.Value == 0 {
				continue
			}
			if counter, ok := counters[m.ID]; ok {
				counter.Add(ctx, int64(m.Value))
			}
		case MetricTypeGauge:
			if gauge, ok := gauges[m.ID]; ok {
				gauge.Record(ctx, int64(m.Value))
			}
		}
		ids = append(ids, uint32(m.ID))
		values = append(values, int64(m.Value))
	}

	if reporterImpl != nil && len(ids) > 0 {
		reporterImpl.ReportMetrics(ids, values)
	}
}

// Add records a single metric.
func Add(id MetricID, value MetricValue) {
	AddSlice([]Metric{{id, value}})
}

// GetDefinitions returns the metric definitions from the embedded metrics.json file.
func GetDefinitions() []MetricDefinition {
	var defs []MetricDefinition

	dec := json.NewDecoder(bytes.NewReader(metricsJSON))
	dec.DisallowUnknownFields()

	err := dec.Decode(&defs)
	if err != nil {
		panic(fmt.Sprintf("extracting definitions from metrics.json: %v", err))
	}
	return defs
}
