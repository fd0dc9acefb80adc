// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package vc provides buildtime information.
package vc // import "go.opentelemetry.io/jitprofiling/vc"

import "fmt"

// Set at link time using -ldflags "-X go.opentelemetry.io/jitprofiling/vc.version=...".
var (
	revision       = ""
	buildTimestamp = ""
	// version in vX.Y.Z{-N-abbrev} format (via git-describe --tags)
	version = ""
)

// Revision of the build.
func Revision() string {
	return revision
}

// BuildTimestamp returns the timestamp of the build.
func BuildTimestamp() string {
	return buildTimestamp
}

// Version in vX.Y.Z{-N-abbrev} format. Development builds report "dev".
func Version() string {
	if version == "" {
		return "dev"
	}
	return version
}

// Describe returns a one line summary of the build information.
func Describe() string {
	return fmt.Sprintf("%s (revision %s, build timestamp %s)",
		Version(), Revision(), BuildTimestamp())
}
