// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package linetable builds the machine code offset to source line tables
// handed to external profilers.
//
// The compiler records, for each bytecode, where its machine code starts.
// Profiler line tables instead list where each line's code ends: row i
// covers the code from the end of row i-1 (or the region start) up to its
// own offset. Build converts between the two and attributes any prologue
// before the first mapped bytecode to the first known line.
package linetable // import "go.opentelemetry.io/jitprofiling/linetable"

import (
	"cmp"
	"slices"
	"sort"

	"go.opentelemetry.io/jitprofiling/libpf"
)

// Entry pairs an offset from the start of a code region with a source line.
type Entry struct {
	Offset uint32
	Line   libpf.SourceLineno
}

// Table is a line table in end-of-range form, ordered by Offset. Index
// order is authoritative; consumers must not re-sort it.
type Table []Entry

// Build turns start-of-range entries of a region of regionLen bytes into an
// end-of-range Table. The entries are not modified. An empty input yields a
// nil Table; otherwise the result has one row more than the input and its
// last row ends at regionLen.
func Build(entries []Entry, regionLen uint32) Table {
	if len(entries) == 0 {
		return nil
	}

	sorted := slices.Clone(entries)
	// Stable so that the first of several entries for one offset stays first.
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	last := len(sorted) - 1
	table := make(Table, len(sorted)+1)
	table[0] = sorted[0]
	for i := 1; i <= last; i++ {
		table[i] = Entry{Offset: sorted[i].Offset, Line: sorted[i-1].Line}
	}
	table[last+1] = Entry{Offset: regionLen, Line: sorted[last].Line}
	return table
}

// Len returns the region length the table covers.
func (t Table) Len() uint32 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].Offset
}

// Lookup returns the line attributed to the code at offset.
func (t Table) Lookup(offset uint32) (libpf.SourceLineno, bool) {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].Offset > offset
	})
	if i == len(t) {
		return 0, false
	}
	return t[i].Line, true
}

// Ranges calls yield with the [start, end) code range and line of every row
// that covers at least one byte, in order, until yield returns false.
func (t Table) Ranges(yield func(start, end uint32, line libpf.SourceLineno) bool) {
	start := uint32(0)
	for _, e := range t {
		if e.Offset > start {
			if !yield(start, e.Offset, e.Line) {
				return
			}
			start = e.Offset
		}
	}
}
