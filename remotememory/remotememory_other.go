//go:build !linux

// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package remotememory // import "go.opentelemetry.io/jitprofiling/remotememory"

import (
	"fmt"
	"runtime"
)

// ReadAt always fails: reading another process is only implemented on Linux.
func (vm ProcessVirtualMemory) ReadAt(_ []byte, _ int64) (int, error) {
	return 0, fmt.Errorf("reading PID %v: unsupported os %s", vm.pid, runtime.GOOS)
}
