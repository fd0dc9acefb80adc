// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package jitreport tells an external profiler about code emitted by the JIT.
//
// Each translation is reported as two method load events, one for the main
// code body and one for the stubs, each with a line table attributing the
// machine code to source lines. The profiler itself is an injected Sink.
package jitreport // import "go.opentelemetry.io/jitprofiling/jitreport"

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/linetable"
	"go.opentelemetry.io/jitprofiling/metrics"
	"go.opentelemetry.io/jitprofiling/translation"
)

const (
	// MethodIDBase is added to function ids to form profiler method ids.
	MethodIDBase = 1000

	unknownMethodName = "unknown"

	trampolineMethodName = "Trampoline"
	trampolineSourceFile = "Undefined"
)

// ErrNoUnit is returned when a translation is reported without its source
// unit. Nothing is sent to the sink in that case.
var ErrNoUnit = errors.New("translation has no source unit")

// Reporter builds method load events and sends them to a Sink. A Reporter
// holds no per-call state; it is safe for concurrent use if its Sink is.
type Reporter struct {
	sink Sink
}

// New returns a Reporter sending to sink.
func New(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// ReportTranslation reports the main body and then the stubs of rec.
//
// The stubs are reported even if reporting the main body failed; the
// returned error joins both failures.
func (r *Reporter) ReportTranslation(unit translation.Unit, fn translation.Func,
	rec *translation.Record) error {
	if unit == nil {
		metrics.Add(metrics.IDReportsAborted, 1)
		log.Debugf("Not reporting translation %d of function %d: no unit", rec.ID, rec.FuncID)
		return ErrNoUnit
	}

	name := unknownMethodName
	if fn != nil {
		if n := fn.FullName(); n != "" {
			name = n
		}
	}

	regions := linetable.Split(unit, rec)
	mainTable := linetable.Build(regions.Main, rec.ALen)
	stubsTable := linetable.Build(regions.Stubs, rec.AStubsLen)

	metrics.AddSlice([]metrics.Metric{
		{ID: metrics.IDTranslationsReported, Value: 1},
		{ID: metrics.IDMappingEntriesDropped, Value: metrics.MetricValue(regions.Dropped)},
		{ID: metrics.IDLineTableRows,
			Value: metrics.MetricValue(len(mainTable) + len(stubsTable))},
	})

	methodID := rec.FuncID + MethodIDBase
	file := unit.FilePath()
	log.Debugf("Reporting translation %d: %s (%s), main %d rows, stubs %d rows, %d dropped",
		rec.ID, name, file, len(mainTable), len(stubsTable), regions.Dropped)

	mainErr := r.send(&MethodLoad{
		MethodID:    methodID,
		MethodName:  name,
		SourceFile:  file,
		LoadAddress: rec.AStart,
		Size:        rec.ALen,
		LineTable:   mainTable,
	})
	stubsErr := r.send(&MethodLoad{
		MethodID:    methodID,
		MethodName:  name,
		SourceFile:  file,
		LoadAddress: rec.AStubsStart,
		Size:        rec.AStubsLen,
		LineTable:   stubsTable,
	})
	return errors.Join(mainErr, stubsErr)
}

// ReportTrampoline reports size bytes of generated code at begin that has
// no bytecode behind it.
func (r *Reporter) ReportTrampoline(begin libpf.Address, size uint32) error {
	metrics.Add(metrics.IDTrampolinesReported, 1)
	return r.send(&MethodLoad{
		MethodID:    MethodIDBase,
		MethodName:  trampolineMethodName,
		SourceFile:  trampolineSourceFile,
		LoadAddress: begin,
		Size:        size,
	})
}

func (r *Reporter) send(load *MethodLoad) error {
	if err := r.sink.MethodLoad(load); err != nil {
		metrics.Add(metrics.IDSinkErrors, 1)
		log.Debugf("Sink rejected %s at %v: %v", load.MethodName, load.LoadAddress, err)
		return fmt.Errorf("report %s at %v: %w", load.MethodName, load.LoadAddress, err)
	}
	return nil
}
