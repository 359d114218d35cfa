// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import "fmt"

// scrambleXOR is applied to every header byte after the swap pass.
const scrambleXOR = 0xED

// scrambleHeader obfuscates a directory header: bytes i and i+2 are swapped
// for i stepping by 3 while i+2 < 204, then every byte is XORed with 0xED.
// The swap pass is a sequence of disjoint transpositions and the XOR pass is
// its own inverse, so the whole transform is an involution.
func scrambleHeader(header []byte) ([]byte, error) {
	if len(header) != headerSize {
		return nil, fmt.Errorf("%w: header must be %d bytes, got %d", ErrFormat, headerSize, len(header))
	}

	out := make([]byte, headerSize)
	copy(out, header)

	for i := 0; i+2 < headerSize; i += 3 {
		out[i], out[i+2] = out[i+2], out[i]
	}
	for i := range out {
		out[i] ^= scrambleXOR
	}

	return out, nil
}

// unscrambleHeader reverses scrambleHeader. The transform is self-inverse;
// the separate name keeps load paths readable.
func unscrambleHeader(header []byte) ([]byte, error) {
	return scrambleHeader(header)
}
