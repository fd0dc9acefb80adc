// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package replay // import "go.opentelemetry.io/jitprofiling/replay"

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Encoder writes Events as JSON lines, optionally zstd compressed.
type Encoder struct {
	enc  *json.Encoder
	zstd *zstd.Encoder
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, compress bool) (*Encoder, error) {
	e := &Encoder{}
	if compress {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		e.zstd = zw
		w = zw
	}
	e.enc = json.NewEncoder(w)
	return e, nil
}

// Encode writes ev.
func (e *Encoder) Encode(ev *Event) error {
	if (ev.Translation == nil) == (ev.Trampoline == nil) {
		return errors.New("event must hold exactly one of translation or trampoline")
	}
	return e.enc.Encode(ev)
}

// Close completes the compressed stream. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.zstd != nil {
		return e.zstd.Close()
	}
	return nil
}
