// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package linetable // import "go.opentelemetry.io/jitprofiling/linetable"

import (
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/translation"
)

// Region says which part of a translation's generated code an address falls into.
type Region uint8

const (
	Unclassified Region = iota
	Main
	Stubs
)

func (r Region) String() string {
	switch r {
	case Main:
		return "main"
	case Stubs:
		return "stubs"
	default:
		return "unclassified"
	}
}

// LineResolver maps bytecode offsets to source lines. translation.Unit
// satisfies it.
type LineResolver interface {
	LineNumber(bcOffset int32) libpf.SourceLineno
}

// Classify returns the region containing addr and the offset of addr from
// the start of that region. The main body is checked first.
func Classify(rec *translation.Record, addr libpf.Address) (Region, uint32) {
	if body := rec.Main(); body.Contains(addr) {
		return Main, uint32(addr - body.Start)
	}
	if stubs := rec.Stubs(); stubs.Contains(addr) {
		return Stubs, uint32(addr - stubs.Start)
	}
	return Unclassified, 0
}

// Regions holds the per-region line entries of one translation, unsorted
// and in mapping order.
type Regions struct {
	Main  []Entry
	Stubs []Entry
	// Dropped counts mapping entries outside both regions.
	Dropped int
}

// Split resolves the source line of every mapping entry of rec and sorts
// the entry into the region its machine code lives in.
func Split(lines LineResolver, rec *translation.Record) Regions {
	var r Regions
	for _, m := range rec.BCMapping {
		line := lines.LineNumber(m.BCStart)
		switch region, offset := Classify(rec, m.AStart); region {
		case Main:
			r.Main = append(r.Main, Entry{Offset: offset, Line: line})
		case Stubs:
			r.Stubs = append(r.Stubs, Entry{Offset: offset, Line: line})
		default:
			r.Dropped++
		}
	}
	return r
}
