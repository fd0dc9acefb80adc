// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jitreport // import "go.opentelemetry.io/jitprofiling/jitreport"

import (
	"errors"

	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/linetable"
)

// MethodLoad describes one extent of generated code as a profiler sees it.
type MethodLoad struct {
	MethodID   uint32
	MethodName string
	SourceFile string

	LoadAddress libpf.Address
	Size        uint32

	// LineTable is nil when no line information is known for the extent.
	// It is never modified once handed to a Sink, so sinks may keep it.
	LineTable linetable.Table
}

// Sink receives method load events. It stands for the external profiler.
type Sink interface {
	MethodLoad(load *MethodLoad) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(load *MethodLoad) error

func (f SinkFunc) MethodLoad(load *MethodLoad) error {
	return f(load)
}

// MultiSink hands every event to each of its sinks in order.
type MultiSink []Sink

var _ Sink = MultiSink{}

// MethodLoad delivers load to every sink, even when an earlier one fails,
// and returns the joined errors.
func (m MultiSink) MethodLoad(load *MethodLoad) error {
	var errs []error
	for _, s := range m {
		if err := s.MethodLoad(load); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
