// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Envelope magic bytes. On disk the first two bytes of the gzip stream are
// replaced so standard tools do not recognize the file; restoring the
// canonical gzip magic makes the payload decompressible again. The patch
// must be reproduced exactly for other readers of the format.
const (
	diskMagic0 = 0x1E
	diskMagic1 = 0x8C
	gzipMagic0 = 0x1F
	gzipMagic1 = 0x8B
)

// unwrapEnvelope restores the canonical gzip magic on a copy of raw and
// decompresses the result. The input slice is never modified.
func unwrapEnvelope(raw []byte) ([]byte, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: file too short for envelope", ErrFormat)
	}

	buf := make([]byte, len(raw))
	copy(buf, raw)
	buf[0], buf[1] = gzipMagic0, gzipMagic1

	zr, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: open envelope: %v", ErrFormat, err)
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress envelope: %v", ErrFormat, err)
	}

	return body, nil
}

// wrapEnvelope compresses a serialized group body and overwrites the gzip
// magic with the format's disk magic.
func wrapEnvelope(body []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create envelope writer: %w", err)
	}
	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("compress envelope: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close envelope: %w", err)
	}

	out := buf.Bytes()
	out[0], out[1] = diskMagic0, diskMagic1

	return out, nil
}
