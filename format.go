// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// C4Group format constants
const (
	// headerSize is the fixed size of the scrambled directory header.
	headerSize = 204

	// entryCoreSize is the fixed size of one entry metadata record.
	entryCoreSize = 316

	// headerMagic identifies a directory header after unscrambling.
	headerMagic = "RedWolf Design GrpFolder"

	// originalSentinel marks groups that are not re-exports of another
	// format variant.
	originalSentinel = 1234567

	// nameFieldLen is the width of the filename field in an entry record.
	// maxNameLen keeps at least one terminating NUL inside it.
	nameFieldLen = 257
	maxNameLen   = 256

	authorFieldLen = 32

	// Header field offsets (after unscrambling).
	hdrOffVersion  = 28  // 2 x int32
	hdrOffCount    = 36  // uint32
	hdrOffAuthor   = 40  // 32 bytes, NUL-padded
	hdrOffTime     = 104 // uint32 epoch seconds
	hdrOffOriginal = 108 // uint32, compared against originalSentinel

	// Entry record field offsets. CRC occupies bytes 285-288 and the
	// executable flag byte 289; two historical codec versions disagreed
	// here, this is the canonical non-overlapping layout.
	entOffName       = 0   // 257 bytes, NUL-padded
	entOffPacked     = 260 // uint32, always written as 1
	entOffIsDir      = 264 // uint32
	entOffSize       = 268 // uint32
	entOffOffset     = 276 // uint32, relative to the end of the entry table
	entOffTime       = 280 // uint32 epoch seconds
	entOffCRCFlag    = 284 // 1 byte
	entOffCRC        = 285 // uint32
	entOffExecutable = 289 // 1 byte
)

// parseHeader extracts directory metadata from an unscrambled header and
// returns the entry count.
func parseHeader(header []byte, d *Directory) (int, error) {
	if !bytes.HasPrefix(header, []byte(headerMagic)) {
		return 0, fmt.Errorf("%w: bad header magic", ErrFormat)
	}

	d.VersionMajor = int32(binary.LittleEndian.Uint32(header[hdrOffVersion:]))
	d.VersionMinor = int32(binary.LittleEndian.Uint32(header[hdrOffVersion+4:]))
	d.Author = string(bytes.TrimRight(header[hdrOffAuthor:hdrOffAuthor+authorFieldLen], "\x00"))
	d.ModTime = timeFromUint32(binary.LittleEndian.Uint32(header[hdrOffTime:]))
	d.Original = binary.LittleEndian.Uint32(header[hdrOffOriginal:]) == originalSentinel

	return int(binary.LittleEndian.Uint32(header[hdrOffCount:])), nil
}

// packHeader builds the unscrambled header for a directory. The caller
// scrambles the result before writing it out.
func packHeader(d *Directory) []byte {
	header := make([]byte, headerSize)

	copy(header, headerMagic)
	binary.LittleEndian.PutUint32(header[hdrOffVersion:], uint32(d.VersionMajor))
	binary.LittleEndian.PutUint32(header[hdrOffVersion+4:], uint32(d.VersionMinor))
	binary.LittleEndian.PutUint32(header[hdrOffCount:], uint32(len(d.Entries)))

	author := d.Author
	if len(author) > authorFieldLen {
		author = author[:authorFieldLen]
	}
	copy(header[hdrOffAuthor:], author)

	binary.LittleEndian.PutUint32(header[hdrOffTime:], timeToUint32(d.ModTime))
	if d.Original {
		binary.LittleEndian.PutUint32(header[hdrOffOriginal:], originalSentinel)
	}

	return header
}

// entryCore holds the fields of one 316-byte metadata record.
type entryCore struct {
	rawName    []byte
	isDir      bool
	size       uint32
	offset     uint32
	modTime    time.Time
	hasCRC     bool
	crc        uint32
	executable bool
}

// parseEntryCore decodes one metadata record.
func parseEntryCore(rec []byte) entryCore {
	name := rec[entOffName : entOffName+nameFieldLen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	core := entryCore{
		rawName:    append([]byte(nil), name...),
		isDir:      binary.LittleEndian.Uint32(rec[entOffIsDir:]) != 0,
		size:       binary.LittleEndian.Uint32(rec[entOffSize:]),
		offset:     binary.LittleEndian.Uint32(rec[entOffOffset:]),
		modTime:    timeFromUint32(binary.LittleEndian.Uint32(rec[entOffTime:])),
		executable: rec[entOffExecutable] != 0,
	}
	if rec[entOffCRCFlag] != 0 {
		core.hasCRC = true
		core.crc = binary.LittleEndian.Uint32(rec[entOffCRC:])
	}

	return core
}

// packEntryCore encodes one metadata record for an entry.
func packEntryCore(e *Entry) ([]byte, error) {
	name := e.nameBytes()
	if len(name) == 0 || len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: filename %q must be 1-%d bytes", ErrFormat, e.Name, maxNameLen)
	}
	if bytes.IndexByte(name, 0) >= 0 {
		return nil, fmt.Errorf("%w: filename %q contains NUL", ErrFormat, e.Name)
	}

	rec := make([]byte, entryCoreSize)
	copy(rec[entOffName:], name)
	binary.LittleEndian.PutUint32(rec[entOffPacked:], 1)
	if e.Dir != nil {
		binary.LittleEndian.PutUint32(rec[entOffIsDir:], 1)
	}
	binary.LittleEndian.PutUint32(rec[entOffSize:], e.Size)
	binary.LittleEndian.PutUint32(rec[entOffOffset:], e.OffsetToFile)
	binary.LittleEndian.PutUint32(rec[entOffTime:], timeToUint32(e.ModTime))
	if e.HasCRC {
		rec[entOffCRCFlag] = 1
		binary.LittleEndian.PutUint32(rec[entOffCRC:], e.CRC)
	}
	if e.Executable {
		rec[entOffExecutable] = 1
	}

	return rec, nil
}

// timeFromUint32 converts an on-disk epoch value. Values beyond the signed
// 32-bit range are written by an incompatible format variant; those leave
// the timestamp at its zero value instead of failing the load.
func timeFromUint32(v uint32) time.Time {
	if v == 0 || v > math.MaxInt32 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0)
}

// timeToUint32 converts a timestamp to the on-disk epoch field, clamped to
// the range readable by every format variant.
func timeToUint32(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	u := t.Unix()
	if u < 0 {
		return 0
	}
	if u > math.MaxInt32 {
		return math.MaxInt32
	}
	return uint32(u)
}
