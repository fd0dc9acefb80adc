// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package replay // import "go.opentelemetry.io/jitprofiling/replay"

import (
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/translation"
)

// Event is one line of a dump. Exactly one of the fields is set.
type Event struct {
	Translation *Translation `json:"translation,omitempty"`
	Trampoline  *Trampoline  `json:"trampoline,omitempty"`
}

// Translation carries a translation record together with the unit and
// function metadata needed to report it.
type Translation struct {
	// Unit is absent when the JIT could not tell which unit the code
	// belongs to.
	Unit *Unit `json:"unit,omitempty"`
	// Func is the full function name, empty if unknown.
	Func string `json:"func,omitempty"`

	ID      uint32    `json:"id"`
	FuncID  uint32    `json:"func_id"`
	Main    Extent    `json:"main"`
	Stubs   Extent    `json:"stubs"`
	Mapping []Mapping `json:"mapping"`
}

// Unit is a source unit with its bytecode line table.
type Unit struct {
	Path  string `json:"path"`
	Lines []Line `json:"lines"`
}

// Line says that the bytecode before PastOffset belongs to Line.
type Line struct {
	PastOffset int32  `json:"past"`
	Line       uint64 `json:"line"`
}

// Extent is a range of generated code.
type Extent struct {
	Start uint64 `json:"start"`
	Len   uint32 `json:"len"`
}

// Mapping is one bytecode to machine code correspondence.
type Mapping struct {
	BC   int32  `json:"bc"`
	Addr uint64 `json:"addr"`
}

// Trampoline is generated code without bytecode behind it.
type Trampoline struct {
	Start uint64 `json:"start"`
	Size  uint32 `json:"size"`
}

// unit returns the translation.Unit of t, or nil.
func (t *Translation) unit() translation.Unit {
	if t.Unit == nil {
		return nil
	}
	lines := make([]translation.LineEntry, len(t.Unit.Lines))
	for i, l := range t.Unit.Lines {
		lines[i] = translation.LineEntry{
			PastOffset: l.PastOffset,
			Line:       libpf.SourceLineno(l.Line),
		}
	}
	return translation.NewLineTableUnit(t.Unit.Path, lines)
}

func (t *Translation) function() translation.Func {
	if t.Func == "" {
		return nil
	}
	return translation.NamedFunc(t.Func)
}

func (t *Translation) record() *translation.Record {
	mapping := make([]translation.MappingEntry, len(t.Mapping))
	for i, m := range t.Mapping {
		mapping[i] = translation.MappingEntry{
			BCStart: m.BC,
			AStart:  libpf.Address(m.Addr),
		}
	}
	return &translation.Record{
		ID:          t.ID,
		FuncID:      t.FuncID,
		AStart:      libpf.Address(t.Main.Start),
		ALen:        t.Main.Len,
		AStubsStart: libpf.Address(t.Stubs.Start),
		AStubsLen:   t.Stubs.Len,
		BCMapping:   mapping,
	}
}
