// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package translation defines the compiler-side inputs of a reporting call:
// the record of one compiled unit of bytecode and the read-only views of the
// source unit and function it belongs to.
package translation // import "go.opentelemetry.io/jitprofiling/translation"

import (
	"go.opentelemetry.io/jitprofiling/libpf"
)

// MappingEntry records that the machine code starting at AStart was
// generated for the bytecode at BCStart.
type MappingEntry struct {
	BCStart int32
	AStart  libpf.Address
}

// Extent is a half-open range of generated machine code.
type Extent struct {
	Start libpf.Address
	Len   uint32
}

// End returns the first address past the extent.
func (e Extent) End() libpf.Address {
	return e.Start + libpf.Address(e.Len)
}

// Contains reports whether addr lies in [Start, Start+Len).
func (e Extent) Contains(addr libpf.Address) bool {
	return addr >= e.Start && addr < e.End()
}

// Overlaps reports whether the two extents share at least one byte.
func (e Extent) Overlaps(o Extent) bool {
	return e.Start < o.End() && o.Start < e.End()
}

// Record is the compiler's record of one translation. The main and stubs
// extents are disjoint. BCMapping is in emission order, which carries no
// meaning for reporting.
type Record struct {
	// ID is the running number of the translation.
	ID uint32
	// FuncID identifies the function the translated bytecode belongs to.
	FuncID uint32

	AStart      libpf.Address
	ALen        uint32
	AStubsStart libpf.Address
	AStubsLen   uint32

	BCMapping []MappingEntry
}

// Main returns the extent of the main code body.
func (r *Record) Main() Extent {
	return Extent{Start: r.AStart, Len: r.ALen}
}

// Stubs returns the extent of the out-of-line stubs.
func (r *Record) Stubs() Extent {
	return Extent{Start: r.AStubsStart, Len: r.AStubsLen}
}

// Unit is the source unit a translation was compiled from.
type Unit interface {
	// FilePath returns the path of the source file.
	FilePath() string
	// LineNumber maps a bytecode offset to its source line.
	LineNumber(bcOffset int32) libpf.SourceLineno
}

// Func is the function a translation was compiled from.
type Func interface {
	FullName() string
}

// NamedFunc is a Func that is just its name.
type NamedFunc string

func (f NamedFunc) FullName() string {
	return string(f)
}
