// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package symtab // import "go.opentelemetry.io/jitprofiling/symtab"

import (
	"cmp"
	"slices"

	"go.opentelemetry.io/jitprofiling/libpf"
)

// FrameCount is the number of samples attributed to one source location.
type FrameCount struct {
	Frame Frame
	Count uint64
}

// Histogram aggregates samples by source location.
type Histogram struct {
	table      *Table
	counts     map[uint64]*FrameCount
	unresolved uint64
}

// NewHistogram returns a Histogram resolving samples through table.
func NewHistogram(table *Table) *Histogram {
	return &Histogram{
		table:  table,
		counts: make(map[uint64]*FrameCount),
	}
}

// Add attributes one sample at addr.
func (h *Histogram) Add(addr libpf.Address) {
	frame, ok := h.table.Resolve(addr)
	if !ok {
		h.unresolved++
		return
	}
	id := frame.ID()
	fc, ok := h.counts[id]
	if !ok {
		// The first sample's offset stands for the location.
		fc = &FrameCount{Frame: frame}
		h.counts[id] = fc
	}
	fc.Count++
}

// Unresolved returns the number of samples outside every reported method.
func (h *Histogram) Unresolved() uint64 {
	return h.unresolved
}

// Counts returns the per-location counts, most frequent first. Ties are
// ordered by method, then line.
func (h *Histogram) Counts() []FrameCount {
	out := make([]FrameCount, 0, len(h.counts))
	for _, fc := range h.counts {
		out = append(out, *fc)
	}
	slices.SortFunc(out, func(a, b FrameCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Frame.MethodID, b.Frame.MethodID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Frame.FunctionName.String(), b.Frame.FunctionName.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.Frame.SourceLine, b.Frame.SourceLine)
	})
	return out
}
