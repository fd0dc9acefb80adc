// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package perfmap writes reported methods to a perf map file, the plain
// text symbol table that perf, bcc and most other profilers read for JIT
// code. The format has no room for line tables, so they are dropped.
package perfmap // import "go.opentelemetry.io/jitprofiling/perfmap"

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/libpf"
)

// DefaultDir is where profilers look for perf map files.
const DefaultDir = "/tmp"

// FileName returns the name of the perf map file for pid.
func FileName(pid libpf.PID) string {
	return fmt.Sprintf("perf-%d.map", pid)
}

// Writer is a jitreport.Sink appending to a perf map file. It is safe for
// concurrent use.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	out    *bufio.Writer
	closed bool
}

var _ jitreport.Sink = &Writer{}

// Open opens the perf map file of pid in dir for appending.
func Open(dir string, pid libpf.PID) (*Writer, error) {
	path := filepath.Join(dir, FileName(pid))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open perf map: %w", err)
	}
	log.Debugf("Writing perf map to %s", path)
	return &Writer{file: f, out: bufio.NewWriter(f)}, nil
}

// Path returns the path of the perf map file.
func (w *Writer) Path() string {
	return w.file.Name()
}

// MethodLoad appends one symbol line. Empty extents are skipped.
func (w *Writer) MethodLoad(load *jitreport.MethodLoad) error {
	if load.Size == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("perf map writer closed")
	}

	if _, err := fmt.Fprintf(w.out, "%x %x %s\n",
		uint64(load.LoadAddress), load.Size, symbolName(load.MethodName)); err != nil {
		return fmt.Errorf("failed to write perf map entry: %w", err)
	}
	// Profilers may read the map while the process is running.
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush perf map: %w", err)
	}
	return nil
}

// symbolName keeps a name on one line.
func symbolName(name string) string {
	if name == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, name)
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.out.Flush(), w.file.Close())
}
