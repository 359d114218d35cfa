// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := []byte("group body bytes")

	wrapped, err := wrapEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, byte(diskMagic0), wrapped[0])
	assert.Equal(t, byte(diskMagic1), wrapped[1])

	body, err := unwrapEnvelope(wrapped)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestUnwrapDoesNotMutateInput(t *testing.T) {
	wrapped, err := wrapEnvelope([]byte("abc"))
	require.NoError(t, err)

	before := append([]byte(nil), wrapped...)
	_, err = unwrapEnvelope(wrapped)
	require.NoError(t, err)
	assert.Equal(t, before, wrapped)
}

func TestUnwrapRejectsShortInput(t *testing.T) {
	_, err := unwrapEnvelope([]byte{diskMagic0})
	assert.ErrorIs(t, err, ErrFormat)

	_, err = unwrapEnvelope(nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestUnwrapRejectsGarbage(t *testing.T) {
	_, err := unwrapEnvelope([]byte("definitely not a gzip stream"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestEnvelopeRecompressReproducesPayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB, 0x00, 0x42}, 1000)

	wrapped, err := wrapEnvelope(payload)
	require.NoError(t, err)
	body, err := unwrapEnvelope(wrapped)
	require.NoError(t, err)

	rewrapped, err := wrapEnvelope(body)
	require.NoError(t, err)
	again, err := unwrapEnvelope(rewrapped)
	require.NoError(t, err)
	assert.Equal(t, payload, again)
}
