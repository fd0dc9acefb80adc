// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// remotememory provides access to the memory space of a process, so that the
// machine code of reported methods can be copied into profiler output.
package remotememory // import "go.opentelemetry.io/jitprofiling/remotememory"

import (
	"fmt"
	"io"

	"go.opentelemetry.io/jitprofiling/libpf"
)

// MaxCodeSize bounds the size of a single Code read.
const MaxCodeSize = 64 << 20

// RemoteMemory implements a set of convenience functions to access the remote memory
type RemoteMemory struct {
	io.ReaderAt
}

// Valid determines if this RemoteMemory instance contains a valid reference to target process
func (rm RemoteMemory) Valid() bool {
	return rm.ReaderAt != nil
}

// Read fills slice p[] with data from remote memory at address addr
func (rm RemoteMemory) Read(addr libpf.Address, p []byte) error {
	_, err := rm.ReadAt(p, int64(addr))
	return err
}

// Code returns a copy of the size bytes of code at addr.
func (rm RemoteMemory) Code(addr libpf.Address, size uint32) ([]byte, error) {
	if size > MaxCodeSize {
		return nil, fmt.Errorf("code at %v too large: %d bytes", addr, size)
	}
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	if err := rm.Read(addr, buf); err != nil {
		return nil, fmt.Errorf("failed to read code at %v: %w", addr, err)
	}
	return buf, nil
}

// ProcessVirtualMemory implements RemoteMemory by using process_vm_readv syscalls
// to read the remote memory.
type ProcessVirtualMemory struct {
	pid libpf.PID
}

// NewProcessVirtualMemory returns ProcessVirtualMemory implementation of RemoteMemory.
func NewProcessVirtualMemory(pid libpf.PID) RemoteMemory {
	return RemoteMemory{ReaderAt: ProcessVirtualMemory{pid}}
}
