// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package linetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/translation"
)

// bcLines resolves bytecode offsets through a plain map.
type bcLines map[int32]libpf.SourceLineno

func (l bcLines) LineNumber(bcOffset int32) libpf.SourceLineno {
	return l[bcOffset]
}

func testRecord(mapping ...translation.MappingEntry) *translation.Record {
	return &translation.Record{
		FuncID:      42,
		AStart:      0x1000,
		ALen:        0x100,
		AStubsStart: 0x8000,
		AStubsLen:   0x40,
		BCMapping:   mapping,
	}
}

func TestClassify(t *testing.T) {
	rec := testRecord()
	tests := []struct {
		addr   libpf.Address
		region Region
		offset uint32
	}{
		{addr: 0xfff, region: Unclassified},
		{addr: 0x1000, region: Main, offset: 0},
		{addr: 0x10ff, region: Main, offset: 0xff},
		{addr: 0x1100, region: Unclassified},
		{addr: 0x8000, region: Stubs, offset: 0},
		{addr: 0x803f, region: Stubs, offset: 0x3f},
		{addr: 0x8040, region: Unclassified},
	}
	for _, tc := range tests {
		region, offset := Classify(rec, tc.addr)
		assert.Equal(t, tc.region, region, "address %v", tc.addr)
		assert.Equal(t, tc.offset, offset, "address %v", tc.addr)
	}
}

func TestRegionString(t *testing.T) {
	assert.Equal(t, "main", Main.String())
	assert.Equal(t, "stubs", Stubs.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}

func TestSplit(t *testing.T) {
	lines := bcLines{0: 3, 4: 4, 9: 6, 12: 7}
	rec := testRecord(
		translation.MappingEntry{BCStart: 4, AStart: 0x1020},
		translation.MappingEntry{BCStart: 9, AStart: 0x8010},
		translation.MappingEntry{BCStart: 0, AStart: 0x1008},
		translation.MappingEntry{BCStart: 12, AStart: 0x4000},
		translation.MappingEntry{BCStart: 12, AStart: 0x8000},
	)

	r := Split(lines, rec)
	assert.Equal(t, []Entry{{Offset: 0x20, Line: 4}, {Offset: 0x8, Line: 3}}, r.Main)
	assert.Equal(t, []Entry{{Offset: 0x10, Line: 6}, {Offset: 0, Line: 7}}, r.Stubs)
	assert.Equal(t, 1, r.Dropped)
}

func TestSplitUnclassifiedDoesNotDisturbOthers(t *testing.T) {
	lines := bcLines{0: 1, 2: 2, 4: 3}
	clean := testRecord(
		translation.MappingEntry{BCStart: 0, AStart: 0x1000},
		translation.MappingEntry{BCStart: 2, AStart: 0x1010},
		translation.MappingEntry{BCStart: 4, AStart: 0x8004},
	)
	noisy := testRecord(
		translation.MappingEntry{BCStart: 4, AStart: 0x2},
		translation.MappingEntry{BCStart: 0, AStart: 0x1000},
		translation.MappingEntry{BCStart: 2, AStart: 0xffff_0000},
		translation.MappingEntry{BCStart: 2, AStart: 0x1010},
		translation.MappingEntry{BCStart: 4, AStart: 0x8004},
		translation.MappingEntry{BCStart: 0, AStart: 0x8040},
	)

	want := Split(lines, clean)
	got := Split(lines, noisy)
	assert.Equal(t, want.Main, got.Main)
	assert.Equal(t, want.Stubs, got.Stubs)
	assert.Equal(t, 0, want.Dropped)
	assert.Equal(t, 3, got.Dropped)
	assert.Equal(t, Build(want.Main, clean.ALen), Build(got.Main, noisy.ALen))
}

func TestSplitEmpty(t *testing.T) {
	r := Split(bcLines{}, testRecord())
	assert.Empty(t, r.Main)
	assert.Empty(t, r.Stubs)
	assert.Zero(t, r.Dropped)
	assert.Nil(t, Build(r.Main, 0x100))
}
