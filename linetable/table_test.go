// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package linetable

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/jitprofiling/libpf"
)

func TestBuild(t *testing.T) {
	tests := map[string]struct {
		entries   []Entry
		regionLen uint32
		expected  Table
	}{
		"empty": {
			regionLen: 50,
		},
		"single entry": {
			entries:   []Entry{{Offset: 7, Line: 9}},
			regionLen: 20,
			expected:  Table{{Offset: 7, Line: 9}, {Offset: 20, Line: 9}},
		},
		"unsorted with prologue": {
			entries:   []Entry{{Offset: 10, Line: 2}, {Offset: 30, Line: 3}, {Offset: 5, Line: 1}},
			regionLen: 50,
			expected: Table{
				{Offset: 5, Line: 1},
				{Offset: 10, Line: 1},
				{Offset: 30, Line: 2},
				{Offset: 50, Line: 3},
			},
		},
		"no prologue": {
			entries:   []Entry{{Offset: 0, Line: 4}, {Offset: 12, Line: 5}},
			regionLen: 16,
			expected: Table{
				{Offset: 0, Line: 4},
				{Offset: 12, Line: 4},
				{Offset: 16, Line: 5},
			},
		},
		"duplicate offsets keep input order": {
			entries: []Entry{
				{Offset: 8, Line: 3},
				{Offset: 0, Line: 1},
				{Offset: 8, Line: 7},
			},
			regionLen: 24,
			expected: Table{
				{Offset: 0, Line: 1},
				{Offset: 8, Line: 1},
				{Offset: 8, Line: 3},
				{Offset: 24, Line: 7},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Build(tc.entries, tc.regionLen))
		})
	}
}

func TestBuildDoesNotModifyInput(t *testing.T) {
	entries := []Entry{{Offset: 30, Line: 3}, {Offset: 10, Line: 2}}
	_ = Build(entries, 40)
	assert.Equal(t, []Entry{{Offset: 30, Line: 3}, {Offset: 10, Line: 2}}, entries)
}

func TestBuildProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		regionLen := uint32(1 + rng.IntN(4096))
		entries := make([]Entry, rng.IntN(32))
		for i := range entries {
			entries[i] = Entry{
				Offset: uint32(rng.IntN(int(regionLen))),
				Line:   libpf.SourceLineno(1 + rng.IntN(100)),
			}
		}

		table := Build(entries, regionLen)
		if len(entries) == 0 {
			require.Empty(t, table)
			continue
		}
		require.Len(t, table, len(entries)+1)
		require.Equal(t, regionLen, table[len(table)-1].Offset)
		require.Equal(t, regionLen, table.Len())
		for i := 1; i < len(table); i++ {
			require.LessOrEqual(t, table[i-1].Offset, table[i].Offset)
		}
	}
}

func TestLookup(t *testing.T) {
	table := Build([]Entry{{Offset: 10, Line: 2}, {Offset: 30, Line: 3}, {Offset: 5, Line: 1}}, 50)

	for offset, line := range map[uint32]libpf.SourceLineno{
		0:  1, // prologue
		4:  1,
		5:  1,
		9:  1,
		10: 2,
		29: 2,
		30: 3,
		49: 3,
	} {
		got, ok := table.Lookup(offset)
		require.True(t, ok, "offset %d", offset)
		assert.Equal(t, line, got, "offset %d", offset)
	}

	_, ok := table.Lookup(50)
	assert.False(t, ok)
	_, ok = Table(nil).Lookup(0)
	assert.False(t, ok)
}

func TestRanges(t *testing.T) {
	type rng struct {
		start, end uint32
		line       libpf.SourceLineno
	}
	table := Table{
		{Offset: 0, Line: 1},
		{Offset: 8, Line: 1},
		{Offset: 8, Line: 3},
		{Offset: 24, Line: 7},
	}

	var got []rng
	table.Ranges(func(start, end uint32, line libpf.SourceLineno) bool {
		got = append(got, rng{start, end, line})
		return true
	})
	assert.Equal(t, []rng{{0, 8, 1}, {8, 24, 7}}, got)

	got = got[:0]
	table.Ranges(func(start, end uint32, line libpf.SourceLineno) bool {
		got = append(got, rng{start, end, line})
		return false
	})
	assert.Equal(t, []rng{{0, 8, 1}}, got)
}
