// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jitdump // import "go.opentelemetry.io/jitprofiling/jitdump"

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"runtime"
)

// Layout as described in tools/perf/Documentation/jitdump-specification.txt
// of the Linux kernel tree. All fields use the writer's native byte order.
const (
	magic   = 0x4A695444
	version = 1

	headerSize       = 40
	recordHeaderSize = 16

	recordCodeLoad  = 0
	recordDebugInfo = 2
	recordCodeClose = 3
)

var byteOrder = binary.NativeEndian

// elfMachine returns the e_machine value perf expects for this architecture.
func elfMachine() uint32 {
	switch runtime.GOARCH {
	case "amd64":
		return uint32(elf.EM_X86_64)
	case "arm64":
		return uint32(elf.EM_AARCH64)
	case "386":
		return uint32(elf.EM_386)
	case "riscv64":
		return uint32(elf.EM_RISCV)
	default:
		return uint32(elf.EM_NONE)
	}
}

type fileHeader struct {
	Magic     uint32
	Version   uint32
	TotalSize uint32
	ElfMach   uint32
	Pad1      uint32
	PID       uint32
	Timestamp uint64
	Flags     uint64
}

type recordHeader struct {
	ID        uint32
	TotalSize uint32
	Timestamp uint64
}

type codeLoad struct {
	PID       uint32
	TID       uint32
	VMA       uint64
	CodeAddr  uint64
	CodeSize  uint64
	CodeIndex uint64
}

type debugInfo struct {
	CodeAddr uint64
	NrEntry  uint64
}

type debugEntry struct {
	Addr    uint64
	Line    uint32
	Discrim uint32
}

// appendRecord appends a record with the given fixed part, which may be nil,
// and trailing variable length data to buf.
func appendRecord(buf *bytes.Buffer, id uint32, timestamp uint64, fixed any, tail ...[]byte) {
	size := recordHeaderSize
	if fixed != nil {
		size += binary.Size(fixed)
	}
	for _, t := range tail {
		size += len(t)
	}
	_ = binary.Write(buf, byteOrder, recordHeader{
		ID:        id,
		TotalSize: uint32(size),
		Timestamp: timestamp,
	})
	if fixed != nil {
		_ = binary.Write(buf, byteOrder, fixed)
	}
	for _, t := range tail {
		buf.Write(t)
	}
}

func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func writeHeader(buf *bytes.Buffer, h fileHeader) error {
	return binary.Write(buf, byteOrder, h)
}

func writeEntry(buf *bytes.Buffer, e debugEntry) error {
	return binary.Write(buf, byteOrder, e)
}
