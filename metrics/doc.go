// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package metrics counts what the line table reporting does.

Metric IDs are declared in metrics.json, which is embedded and also used to
generate ids.go. Every non-obsolete definition is registered as an
OpenTelemetry instrument on the global meter provider, so an application
that installs a provider gets the counters for free:

	metrics.Add(metrics.IDTranslationsReported, 1)

A Reporter can be installed with SetReporter to observe the raw values, which
is what the tests do.
*/
package metrics
