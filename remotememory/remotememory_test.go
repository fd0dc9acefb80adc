// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package remotememory

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"syscall"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/jitprofiling/libpf"
)

func TestCodeFromReader(t *testing.T) {
	rm := RemoteMemory{ReaderAt: bytes.NewReader([]byte{0x55, 0x48, 0x89, 0xe5, 0xc3})}
	require.True(t, rm.Valid())

	code, err := rm.Code(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x89, 0xe5}, code)

	code, err = rm.Code(4, 0)
	require.NoError(t, err)
	assert.Empty(t, code)

	_, err = rm.Code(3, 8)
	require.Error(t, err)

	_, err = rm.Code(0, MaxCodeSize+1)
	require.Error(t, err)

	assert.False(t, RemoteMemory{}.Valid())
}

func TestProcessVirtualMemory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skipf("unsupported os %s", runtime.GOOS)
	}
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	rm := NewProcessVirtualMemory(libpf.PID(os.Getpid()))

	code, err := rm.Code(libpf.Address(unsafe.Pointer(&data[0])), uint32(len(data)))
	if errors.Is(err, syscall.ENOSYS) || errors.Is(err, syscall.EPERM) {
		t.Skipf("skipping due to error: %v", err)
	}
	require.NoError(t, err)
	assert.Equal(t, data, code)
	runtime.KeepAlive(data)
}
