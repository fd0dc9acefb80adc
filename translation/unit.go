// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package translation // import "go.opentelemetry.io/jitprofiling/translation"

import (
	"cmp"
	"slices"
	"sort"

	"go.opentelemetry.io/jitprofiling/libpf"
)

// LineEntry says that the bytecode before PastOffset, and after the
// previous entry's PastOffset, was compiled from Line.
type LineEntry struct {
	PastOffset int32
	Line       libpf.SourceLineno
}

// LineTableUnit is a Unit whose bytecode line numbers come from a table of
// past-offset rows.
type LineTableUnit struct {
	path  string
	lines []LineEntry
}

var _ Unit = &LineTableUnit{}

// NewLineTableUnit returns a Unit for path. The rows are copied and sorted by
// PastOffset.
func NewLineTableUnit(path string, lines []LineEntry) *LineTableUnit {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b LineEntry) int {
		return cmp.Compare(a.PastOffset, b.PastOffset)
	})
	return &LineTableUnit{path: path, lines: sorted}
}

func (u *LineTableUnit) FilePath() string {
	return u.path
}

// LineNumber returns the line of the first row whose PastOffset is beyond
// bcOffset, or 0 if the offset is past the end of the table.
func (u *LineTableUnit) LineNumber(bcOffset int32) libpf.SourceLineno {
	i := sort.Search(len(u.lines), func(i int) bool {
		return u.lines[i].PastOffset > bcOffset
	})
	if i == len(u.lines) {
		return 0
	}
	return u.lines[i].Line
}
