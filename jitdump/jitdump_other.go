//go:build !linux

// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jitdump // import "go.opentelemetry.io/jitprofiling/jitdump"

import (
	"errors"
	"os"
	"time"
)

var start = time.Now()

func mapMarker(*os.File) ([]byte, error) {
	return nil, errors.New("jitdump markers are only supported on linux")
}

func unmapMarker([]byte) error {
	return nil
}

func monotonicNow() uint64 {
	return uint64(time.Since(start).Nanoseconds())
}

func currentThreadID() uint32 {
	return uint32(os.Getpid())
}
