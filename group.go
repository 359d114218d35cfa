// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Group represents one archive: a compression envelope wrapping a root
// directory tree.
type Group struct {
	// Root is the archive's root directory.
	Root *Directory

	path string
}

// Open reads and parses the group file at path. The envelope is unwrapped
// into memory; entry content is fetched lazily from the decompressed stream,
// which stays referenced by every loaded entry.
func Open(path string) (*Group, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group file: %w", err)
	}

	body, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}

	root, err := loadDirectory(bytes.NewReader(body), 0)
	if err != nil {
		return nil, err
	}

	return &Group{Root: root, path: path}, nil
}

// New returns an empty group that Save will write to path. The root
// directory is marked original.
func New(path string) *Group {
	return &Group{
		Root: &Directory{Original: true, ModTime: time.Now()},
		path: path,
	}
}

// Path returns the archive path the group was opened from or will be saved to.
func (g *Group) Path() string { return g.path }

// Save serializes the tree and writes it through the envelope to the
// group's path.
func (g *Group) Save() error {
	body, err := g.Root.save()
	if err != nil {
		return err
	}

	data, err := wrapEnvelope(body)
	if err != nil {
		return err
	}

	if err := os.WriteFile(g.path, data, 0644); err != nil {
		return fmt.Errorf("%w: write group file: %v", ErrFilesystem, err)
	}
	return nil
}

// loadDirectory reads one directory's serialized form at offset: the
// scrambled 204-byte header, count consecutive 316-byte entry records, and
// recursively any nested directories referenced by them.
func loadDirectory(r io.ReadSeeker, offset int64) (*Directory, error) {
	streamSize, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: measure stream: %v", ErrFormat, err)
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek to directory header: %v", ErrFormat, err)
	}

	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: read directory header: %v", ErrFormat, err)
	}
	header, err := unscrambleHeader(raw)
	if err != nil {
		return nil, err
	}

	d := &Directory{}
	count, err := parseHeader(header, d)
	if err != nil {
		return nil, err
	}

	tableLen := int64(entryCoreSize) * int64(count)
	if offset+headerSize+tableLen > streamSize {
		return nil, fmt.Errorf("%w: entry table truncated (%d entries)", ErrFormat, count)
	}

	table := make([]byte, tableLen)
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, fmt.Errorf("%w: read entry table: %v", ErrFormat, err)
	}

	contentBase := offset + headerSize + tableLen
	for i := 0; i < count; i++ {
		core := parseEntryCore(table[i*entryCoreSize : (i+1)*entryCoreSize])

		name, err := decodeName(core.rawName)
		if err != nil {
			return nil, err
		}

		e := &Entry{
			Name:         name,
			Size:         core.size,
			ModTime:      core.modTime,
			Executable:   core.executable,
			HasCRC:       core.hasCRC,
			CRC:          core.crc,
			OffsetToFile: core.offset,
			rawName:      core.rawName,
			r:            r,
			contentPos:   contentBase + int64(core.offset),
		}
		// Bound the declared size before anything allocates for it.
		if !core.isDir && e.contentPos+int64(core.size) > streamSize {
			return nil, fmt.Errorf("%w: content of %s extends past stream end", ErrFormat, name)
		}
		if core.isDir {
			sub, err := loadDirectory(r, e.contentPos)
			if err != nil {
				return nil, err
			}
			e.Dir = sub
		}
		d.Entries = append(d.Entries, e)
	}

	return d, nil
}

// save serializes the directory: scrambled header, entry records in child
// order, then the content blocks. Child offsets are recomputed from
// cumulative serialized sizes before anything is written, matching the
// load-time offset arithmetic.
func (d *Directory) save() ([]byte, error) {
	var running int64
	for _, e := range d.Entries {
		if e.Dir != nil {
			e.Size = uint32(e.Dir.serializedSize())
		}
		if running > math.MaxUint32 {
			return nil, fmt.Errorf("%w: group exceeds 4 GiB content limit", ErrFormat)
		}
		e.OffsetToFile = uint32(running)
		running += e.serializedSize()
	}

	header, err := scrambleHeader(packHeader(d))
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+entryCoreSize*len(d.Entries)))
	buf.Write(header)

	for _, e := range d.Entries {
		rec, err := packEntryCore(e)
		if err != nil {
			return nil, err
		}
		buf.Write(rec)
	}

	for _, e := range d.Entries {
		if e.Dir != nil {
			block, err := e.Dir.save()
			if err != nil {
				return nil, err
			}
			buf.Write(block)
			continue
		}

		content, err := e.Content()
		if err != nil {
			return nil, err
		}
		buf.Write(content)
	}

	return buf.Bytes(), nil
}
