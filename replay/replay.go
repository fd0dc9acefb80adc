// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package replay reads dumps of JIT events and feeds them through a
// jitreport.Reporter. A dump is a stream of JSON encoded Events, usually
// one per line, optionally zstd compressed.
package replay // import "go.opentelemetry.io/jitprofiling/replay"

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"go.opentelemetry.io/jitprofiling/internal/log"
	"go.opentelemetry.io/jitprofiling/jitreport"
	"go.opentelemetry.io/jitprofiling/libpf"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Decoder reads Events from a dump.
type Decoder struct {
	dec  *json.Decoder
	zstd *zstd.Decoder
}

// NewDecoder returns a Decoder for r, decompressing it if it starts with
// the zstd frame magic.
func NewDecoder(r io.Reader) (*Decoder, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	d := &Decoder{}
	var in io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		if d.zstd, err = zstd.NewReader(br); err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		in = d.zstd
	}
	d.dec = json.NewDecoder(in)
	d.dec.DisallowUnknownFields()
	return d, nil
}

// Next returns the next event, or io.EOF at the end of the dump.
func (d *Decoder) Next() (*Event, error) {
	var ev Event
	if err := d.dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	if (ev.Translation == nil) == (ev.Trampoline == nil) {
		return nil, errors.New("event must hold exactly one of translation or trampoline")
	}
	return &ev, nil
}

// Close releases the decompressor. It does not close the underlying reader.
func (d *Decoder) Close() {
	if d.zstd != nil {
		d.zstd.Close()
	}
}

// Stats summarizes a replay.
type Stats struct {
	Translations int
	Trampolines  int
	// Aborted counts translations without a unit, which are not reported.
	Aborted int
	// SinkErrors counts events the sink failed on.
	SinkErrors int
}

// Replay reports every event of dec through rep. Sink failures are logged
// and counted but do not stop the replay; decoding errors and context
// cancellation do.
func Replay(ctx context.Context, dec *Decoder, rep *jitreport.Reporter) (Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		switch {
		case ev.Translation != nil:
			t := ev.Translation
			err = rep.ReportTranslation(t.unit(), t.function(), t.record())
			if errors.Is(err, jitreport.ErrNoUnit) {
				stats.Aborted++
				continue
			}
			stats.Translations++
		case ev.Trampoline != nil:
			err = rep.ReportTrampoline(libpf.Address(ev.Trampoline.Start), ev.Trampoline.Size)
			stats.Trampolines++
		}
		if err != nil {
			stats.SinkErrors++
			log.Warnf("Failed to report event: %v", err)
		}
	}
}
