// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package libpf holds the small shared types used across the jitprofiling
// packages.
package libpf // import "go.opentelemetry.io/jitprofiling/libpf"

// SourceLineno represents a line number within a source file. Zero means the
// line is not known.
type SourceLineno uint64
