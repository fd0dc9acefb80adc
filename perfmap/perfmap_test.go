// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package perfmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/translation"
)

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(dir, 77)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "perf-77.map"), w.Path())

	rep := jitreport.New(w)
	unit := translation.NewLineTableUnit("/a.php", nil)
	rec := &translation.Record{
		FuncID: 1,
		AStart: 0x7f0000001000, ALen: 0x80,
		// No stubs were emitted for this translation.
	}
	require.NoError(t, rep.ReportTranslation(unit, translation.NamedFunc("Foo::\nbar"), rec))
	require.NoError(t, rep.ReportTrampoline(0x7f0000002000, 0x10))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Error(t, w.MethodLoad(&jitreport.MethodLoad{Size: 1}))

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	assert.Equal(t, "7f0000001000 80 Foo:: bar\n7f0000002000 10 Trampoline\n", string(data))
}

func TestWriterAppends(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"first", "second"} {
		w, err := Open(dir, 1)
		require.NoError(t, err)
		require.NoError(t, w.MethodLoad(&jitreport.MethodLoad{
			MethodName: name, LoadAddress: 0x10, Size: 1,
		}))
		require.NoError(t, w.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName(1)))
	require.NoError(t, err)
	assert.Equal(t, "10 1 first\n10 1 second\n", string(data))
}
