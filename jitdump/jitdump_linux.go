//go:build linux

// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jitdump // import "go.opentelemetry.io/jitprofiling/jitdump"

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapMarker maps the first page of f executable. perf record logs the
// mapping, which is how perf inject later finds the dump.
func mapMarker(f *os.File) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, unix.Getpagesize(),
		unix.PROT_READ|unix.PROT_EXEC, unix.MAP_PRIVATE)
}

func unmapMarker(marker []byte) error {
	return unix.Munmap(marker)
}

// monotonicNow returns CLOCK_MONOTONIC in nanoseconds, the clock selected
// by perf record -k mono.
func monotonicNow() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano())
}

func currentThreadID() uint32 {
	return uint32(unix.Gettid())
}
