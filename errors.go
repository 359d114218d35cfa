// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import "errors"

// Error kinds returned by this package. Every error returned wraps one of
// these sentinels, so callers can classify failures with errors.Is.
var (
	// ErrFormat indicates malformed group data: a bad header, a truncated
	// entry table, an undecodable filename or a missing content position.
	// It is always fatal to the enclosing load or save.
	ErrFormat = errors.New("invalid group format")

	// ErrFilesystem indicates a failed filesystem operation during
	// Explode or Pack (backup rename, directory creation, file write).
	ErrFilesystem = errors.New("filesystem operation failed")
)
