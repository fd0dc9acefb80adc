// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package symtab attributes sampled code addresses to the source locations
// reported for JIT generated code.
package symtab // import "go.opentelemetry.io/jitprofiling/symtab"

import (
	"encoding/binary"
	"slices"
	"sort"
	"sync"

	"github.com/zeebo/xxh3"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/libpf/freelru"
	"go.opentelemetry.io/jitprofiling/linetable"
	"go.opentelemetry.io/jitprofiling/metrics"
	"go.opentelemetry.io/jitprofiling/translation"
)

// DefaultCacheSize is the usual number of resolved addresses to cache.
const DefaultCacheSize = 16384

// Frame is the source location attributed to a code address.
type Frame struct {
	MethodID     uint32
	FunctionName libpf.String
	SourceFile   libpf.String
	// SourceLine is 0 when the method was reported without line information.
	SourceLine libpf.SourceLineno
	// Offset is the distance of the address from the method's load address.
	Offset uint32
}

// ID returns a hash identifying the frame's source location. Frames that
// differ only in Offset share the ID.
func (f Frame) ID() uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:], f.MethodID)
	binary.LittleEndian.PutUint64(buf[4:], uint64(f.SourceLine))

	h := xxh3.New()
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(f.FunctionName.String())
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(f.SourceFile.String())
	return h.Sum64()
}

// method is one reported extent of generated code.
type method struct {
	extent translation.Extent
	id     uint32
	name   libpf.String
	file   libpf.String
	lines  linetable.Table
}

// Table indexes reported methods by address. It is a jitreport.Sink and can
// resolve addresses concurrently with reporting.
type Table struct {
	mu sync.RWMutex
	// methods is sorted by start address and holds no overlapping extents.
	methods []method
	// gen is bumped on every change of methods.
	gen uint64

	// cacheMu guards cache, which is not safe for concurrent use.
	cacheMu sync.Mutex
	cache   *freelru.LRU[libpf.Address, Frame]
	// cacheGen is the generation of methods the cached frames came from.
	cacheGen uint64
}

var _ jitreport.Sink = &Table{}

// New returns an empty Table caching up to cacheSize resolved addresses.
func New(cacheSize uint32) (*Table, error) {
	cache, err := freelru.New[libpf.Address, Frame](cacheSize, libpf.Address.Hash32)
	if err != nil {
		return nil, err
	}
	return &Table{cache: cache}, nil
}

// MethodLoad indexes load. Older methods overlapping its extent are
// forgotten since their code memory has been reused. Empty extents are
// ignored.
func (t *Table) MethodLoad(load *jitreport.MethodLoad) error {
	if load.Size == 0 {
		return nil
	}
	m := method{
		extent: translation.Extent{Start: load.LoadAddress, Len: load.Size},
		id:     load.MethodID,
		name:   libpf.Intern(load.MethodName),
		file:   libpf.Intern(load.SourceFile),
		lines:  load.LineTable,
	}

	t.mu.Lock()
	// First method ending after the new start; everything overlapping
	// follows it contiguously.
	lo := sort.Search(len(t.methods), func(i int) bool {
		return t.methods[i].extent.End() > m.extent.Start
	})
	hi := lo
	for hi < len(t.methods) && t.methods[hi].extent.Overlaps(m.extent) {
		log.Debugf("Replacing %s at %v with %s",
			t.methods[hi].name, t.methods[hi].extent.Start, m.name)
		hi++
	}
	t.methods = slices.Replace(t.methods, lo, hi, m)
	t.gen++
	n, gen := len(t.methods), t.gen
	t.mu.Unlock()

	t.invalidateCache(gen)

	metrics.Add(metrics.IDSymtabMethods, metrics.MetricValue(n))
	return nil
}

// invalidateCache drops cached frames older than gen. A concurrent
// MethodLoad may get here after a newer one, so cacheGen never moves back.
func (t *Table) invalidateCache(gen uint64) {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	if gen > t.cacheGen {
		t.cache.Purge()
		t.cacheGen = gen
	}
}

// Resolve returns the frame for the code at addr.
func (t *Table) Resolve(addr libpf.Address) (Frame, bool) {
	t.cacheMu.Lock()
	frame, ok := t.cache.Get(addr)
	t.cacheMu.Unlock()
	if ok {
		return frame, true
	}

	t.mu.RLock()
	frame, ok = t.lookup(addr)
	gen := t.gen
	t.mu.RUnlock()
	if !ok {
		return Frame{}, false
	}

	t.cacheMu.Lock()
	if t.cacheGen == gen {
		t.cache.Add(addr, frame)
	}
	t.cacheMu.Unlock()
	return frame, true
}

func (t *Table) lookup(addr libpf.Address) (Frame, bool) {
	i := sort.Search(len(t.methods), func(i int) bool {
		return t.methods[i].extent.End() > addr
	})
	if i == len(t.methods) || !t.methods[i].extent.Contains(addr) {
		return Frame{}, false
	}
	m := &t.methods[i]
	offset := uint32(addr - m.extent.Start)
	line, _ := m.lines.Lookup(offset)
	return Frame{
		MethodID:     m.id,
		FunctionName: m.name,
		SourceFile:   m.file,
		SourceLine:   line,
		Offset:       offset,
	}, true
}

// Len returns the number of indexed methods.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.methods)
}

// CacheStatistics returns and resets the resolve cache counters.
func (t *Table) CacheStatistics() freelru.Statistics {
	t.cacheMu.Lock()
	defer t.cacheMu.Unlock()
	return t.cache.GetAndResetStatistics()
}
