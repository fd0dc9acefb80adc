// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package jitdump writes reported methods in the perf jitdump format, so that
// `perf record -k mono` followed by `perf inject --jit` can symbolize and
// annotate samples in generated code.
package jitdump // import "go.opentelemetry.io/jitprofiling/jitdump"

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/libpf"
	"go.opentelemetry.io/jitprofiling/remotememory"
)

// Writer is a jitreport.Sink appending to a jit-<pid>.dump file. It is safe
// for concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	out    *bufio.Writer
	marker []byte
	closed bool

	pid       uint32
	codeIndex uint64
	code      remotememory.RemoteMemory

	now func() uint64
	tid func() uint32
}

var _ jitreport.Sink = &Writer{}

// Option configures a Writer.
type Option func(*Writer)

// WithRemoteMemory makes the Writer copy each method's machine code from rm.
// Without it the code bytes are written as zeros.
func WithRemoteMemory(rm remotememory.RemoteMemory) Option {
	return func(w *Writer) {
		w.code = rm
	}
}

// WithClock overrides the CLOCK_MONOTONIC timestamp source.
func WithClock(now func() uint64) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// FileName returns the name perf expects for the dump of pid.
func FileName(pid libpf.PID) string {
	return fmt.Sprintf("jit-%d.dump", pid)
}

// Open creates the dump file for pid in dir and writes its header.
func Open(dir string, pid libpf.PID, opts ...Option) (*Writer, error) {
	w := &Writer{
		pid: uint32(pid),
		now: monotonicNow,
		tid: currentThreadID,
	}
	for _, opt := range opts {
		opt(w)
	}

	path := filepath.Join(dir, FileName(pid))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create jitdump: %w", err)
	}
	w.file = f
	w.out = bufio.NewWriter(f)

	var buf bytes.Buffer
	_ = writeHeader(&buf, fileHeader{
		Magic:     magic,
		Version:   version,
		TotalSize: headerSize,
		ElfMach:   elfMachine(),
		PID:       w.pid,
		Timestamp: w.now(),
	})
	if _, err = w.out.Write(buf.Bytes()); err == nil {
		err = w.out.Flush()
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write jitdump header: %w", err)
	}

	// perf finds the dump through this mapping in the recorded mmap events.
	if w.marker, err = mapMarker(f); err != nil {
		log.Warnf("Failed to map %s, perf record will not pick it up: %v", path, err)
	}
	log.Debugf("Writing jitdump to %s", path)
	return w, nil
}

// Path returns the path of the dump file.
func (w *Writer) Path() string {
	return w.file.Name()
}

// MethodLoad writes the line table of load as a debug info record followed
// by the code load record. Methods of size zero are skipped.
func (w *Writer) MethodLoad(load *jitreport.MethodLoad) error {
	if load.Size == 0 {
		return nil
	}
	code := w.readCode(load)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("jitdump writer closed")
	}

	var buf bytes.Buffer
	ts := w.now()
	if entries := debugEntries(load); len(entries) > 0 {
		appendRecord(&buf, recordDebugInfo, ts, debugInfo{
			CodeAddr: uint64(load.LoadAddress),
			NrEntry:  uint64(len(entries) / 2),
		}, entries...)
	}
	appendRecord(&buf, recordCodeLoad, ts, codeLoad{
		PID:       w.pid,
		TID:       w.tid(),
		VMA:       uint64(load.LoadAddress),
		CodeAddr:  uint64(load.LoadAddress),
		CodeSize:  uint64(load.Size),
		CodeIndex: w.codeIndex,
	}, cString(load.MethodName), code)
	w.codeIndex++

	if _, err := w.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write jitdump record: %w", err)
	}
	return nil
}

func (w *Writer) readCode(load *jitreport.MethodLoad) []byte {
	if w.code.Valid() {
		code, err := w.code.Code(load.LoadAddress, load.Size)
		if err == nil {
			return code
		}
		log.Debugf("Writing zeros for %s: %v", load.MethodName, err)
	}
	return make([]byte, load.Size)
}

// debugEntries returns the encoded debug entries of load, each as a pair of
// fixed part and file name.
func debugEntries(load *jitreport.MethodLoad) [][]byte {
	var parts [][]byte
	file := cString(load.SourceFile)
	load.LineTable.Ranges(func(start, _ uint32, line libpf.SourceLineno) bool {
		var entry bytes.Buffer
		_ = writeEntry(&entry, debugEntry{
			Addr: uint64(load.LoadAddress) + uint64(start),
			Line: uint32(line),
		})
		parts = append(parts, entry.Bytes(), file)
		return true
	})
	return parts
}

// Close writes the close record, flushes the file and removes the marker
// mapping.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var buf bytes.Buffer
	appendRecord(&buf, recordCodeClose, w.now(), nil)
	_, err := w.out.Write(buf.Bytes())
	if err == nil {
		err = w.out.Flush()
	}
	if w.marker != nil {
		err = errors.Join(err, unmapMarker(w.marker))
	}
	return errors.Join(err, w.file.Close())
}
