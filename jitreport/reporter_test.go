// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jitreport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/linetable"
	"go.opentelemetry.io/jitprofiling/translation"
)

// recordingSink keeps every event it receives.
type recordingSink struct {
	loads []MethodLoad
	err   error
}

func (s *recordingSink) MethodLoad(load *MethodLoad) error {
	s.loads = append(s.loads, *load)
	return s.err
}

func testUnit() translation.Unit {
	return translation.NewLineTableUnit("/srv/www/index.php", []translation.LineEntry{
		{PastOffset: 4, Line: 1},
		{PastOffset: 8, Line: 2},
		{PastOffset: 12, Line: 3},
		{PastOffset: 16, Line: 4},
	})
}

func testRecord() *translation.Record {
	return &translation.Record{
		ID:          7,
		FuncID:      5,
		AStart:      0x10000,
		ALen:        50,
		AStubsStart: 0x20000,
		AStubsLen:   20,
		BCMapping: []translation.MappingEntry{
			{BCStart: 4, AStart: 0x10000 + 10},
			{BCStart: 8, AStart: 0x10000 + 30},
			{BCStart: 12, AStart: 0x20000 + 7},
			{BCStart: 0, AStart: 0x10000 + 5},
			{BCStart: 0, AStart: 0x30000},
		},
	}
}

func TestReportTranslation(t *testing.T) {
	sink := &recordingSink{}
	r := New(sink)

	require.NoError(t, r.ReportTranslation(testUnit(), translation.NamedFunc("Foo::bar"),
		testRecord()))

	require.Len(t, sink.loads, 2)
	assert.Equal(t, MethodLoad{
		MethodID:    1005,
		MethodName:  "Foo::bar",
		SourceFile:  "/srv/www/index.php",
		LoadAddress: 0x10000,
		Size:        50,
		LineTable: linetable.Table{
			{Offset: 5, Line: 1},
			{Offset: 10, Line: 1},
			{Offset: 30, Line: 2},
			{Offset: 50, Line: 3},
		},
	}, sink.loads[0])
	assert.Equal(t, MethodLoad{
		MethodID:    1005,
		MethodName:  "Foo::bar",
		SourceFile:  "/srv/www/index.php",
		LoadAddress: 0x20000,
		Size:        20,
		LineTable:   linetable.Table{{Offset: 7, Line: 4}, {Offset: 20, Line: 4}},
	}, sink.loads[1])
}

func TestReportTranslationUnknownFunc(t *testing.T) {
	for name, fn := range map[string]translation.Func{
		"nil func":   nil,
		"empty name": translation.NamedFunc(""),
	} {
		t.Run(name, func(t *testing.T) {
			sink := &recordingSink{}
			require.NoError(t, New(sink).ReportTranslation(testUnit(), fn, testRecord()))
			require.Len(t, sink.loads, 2)
			for _, l := range sink.loads {
				assert.Equal(t, "unknown", l.MethodName)
			}
		})
	}
}

func TestReportTranslationNoUnit(t *testing.T) {
	sink := &recordingSink{}
	err := New(sink).ReportTranslation(nil, translation.NamedFunc("Foo::bar"), testRecord())
	require.ErrorIs(t, err, ErrNoUnit)
	assert.Empty(t, sink.loads)
}

func TestReportTranslationEmptyRegions(t *testing.T) {
	sink := &recordingSink{}
	rec := testRecord()
	rec.BCMapping = nil
	rec.AStubsStart, rec.AStubsLen = 0, 0

	require.NoError(t, New(sink).ReportTranslation(testUnit(), nil, rec))
	require.Len(t, sink.loads, 2)
	assert.Nil(t, sink.loads[0].LineTable)
	assert.Nil(t, sink.loads[1].LineTable)
	assert.Equal(t, uint32(0), sink.loads[1].Size)
}

func TestReportTranslationSinkError(t *testing.T) {
	boom := errors.New("boom")
	sink := &recordingSink{err: boom}

	err := New(sink).ReportTranslation(testUnit(), nil, testRecord())
	require.ErrorIs(t, err, boom)
	// The stubs are still reported after the main body failed.
	assert.Len(t, sink.loads, 2)
}

func TestReportTrampoline(t *testing.T) {
	sink := &recordingSink{}
	require.NoError(t, New(sink).ReportTrampoline(libpf.Address(0x7000), 4096))

	assert.Equal(t, []MethodLoad{{
		MethodID:    1000,
		MethodName:  "Trampoline",
		SourceFile:  "Undefined",
		LoadAddress: 0x7000,
		Size:        4096,
	}}, sink.loads)
}

func TestMultiSink(t *testing.T) {
	first := &recordingSink{err: errors.New("first")}
	second := &recordingSink{}
	var third []uint32
	multi := MultiSink{first, second, SinkFunc(func(load *MethodLoad) error {
		third = append(third, load.MethodID)
		return nil
	})}

	err := New(multi).ReportTrampoline(0x1000, 16)
	require.EqualError(t, err, "report Trampoline at 0x1000: first")
	assert.Len(t, first.loads, 1)
	assert.Len(t, second.loads, 1)
	assert.Equal(t, []uint32{1000}, third)
}
