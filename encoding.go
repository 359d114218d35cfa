// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeName interprets a NUL-trimmed on-disk filename. Group files predate
// UTF-8 adoption, so a name is tried as UTF-8 first and then as
// Windows-1252. A name that decodes to replacement or control characters
// under both is rejected.
func decodeName(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: undecodable filename %q", ErrFormat, raw)
	}
	name := string(decoded)
	for _, r := range name {
		if r == utf8.RuneError || r < 0x20 || (r >= 0x7F && r < 0xA0) {
			return "", fmt.Errorf("%w: undecodable filename %q", ErrFormat, raw)
		}
	}

	return name, nil
}
