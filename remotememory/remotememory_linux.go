//go:build linux

// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package remotememory // import "go.opentelemetry.io/jitprofiling/remotememory"

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ReadAt reads len(p) bytes at address off of the target process. Short
// reads, e.g. when the range crosses into an unmapped page, are errors.
func (vm ProcessVirtualMemory) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	local := []unix.Iovec{{Base: &p[0]}}
	local[0].SetLen(len(p))
	remote := []unix.RemoteIovec{{Base: uintptr(off), Len: len(p)}}

	n, err := unix.ProcessVMReadv(int(vm.pid), local, remote, 0)
	switch {
	case err != nil:
		return n, fmt.Errorf("failed to read PID %v at 0x%x: %w", vm.pid, off, err)
	case n != len(p):
		return n, fmt.Errorf("failed to read PID %v at 0x%x: got only %d of %d",
			vm.pid, off, n, len(p))
	}
	return n, nil
}
