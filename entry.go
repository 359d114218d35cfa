// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"fmt"
	"io"
	"time"
)

// Entry is one member of a directory's child list: a leaf file, or a nested
// group when Dir is non-nil.
type Entry struct {
	// Name is the decoded filename. Names are unique within one
	// directory's child list.
	Name string

	Size       uint32
	ModTime    time.Time
	Executable bool

	// HasCRC reports whether CRC holds a CRC-32 of the entry content.
	HasCRC bool
	CRC    uint32

	// OffsetToFile is the byte distance from the end of the owning
	// directory's entry table to this entry's content. Save recomputes it
	// from cumulative serialized sizes.
	OffsetToFile uint32

	// Dir is the nested directory for subgroup entries, nil for leaves.
	Dir *Directory

	rawName    []byte        // original on-disk name bytes, kept for byte-exact round-trips
	r          io.ReadSeeker // shared stream the content position points into
	contentPos int64         // absolute offset of the content in the stream
	data       []byte        // materialized content, overrides the stream when set
}

// IsDir reports whether the entry is a nested group.
func (e *Entry) IsDir() bool { return e.Dir != nil }

// Content returns the entry's raw bytes. Materialized content is returned
// directly; otherwise the shared stream is read at the entry's content
// position and the stream cursor is restored afterwards, so a caller's
// cursor is never disturbed.
func (e *Entry) Content() (content []byte, err error) {
	if e.data != nil {
		return e.data, nil
	}
	if e.r == nil || e.contentPos < 0 {
		return nil, fmt.Errorf("%w: invalid content position", ErrFormat)
	}

	pos, err := e.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("save stream position: %w", err)
	}
	// The cursor comes back to the caller's position even when the read
	// fails partway.
	defer func() {
		if _, serr := e.r.Seek(pos, io.SeekStart); serr != nil && err == nil {
			content, err = nil, fmt.Errorf("restore stream position: %w", serr)
		}
	}()

	if _, err := e.r.Seek(e.contentPos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to content of %s: %w", e.Name, err)
	}

	buf := make([]byte, e.Size)
	if _, err := io.ReadFull(e.r, buf); err != nil {
		return nil, fmt.Errorf("%w: read content of %s: %v", ErrFormat, e.Name, err)
	}

	return buf, nil
}

// SetContent materializes content, replacing lazy stream access, and updates
// Size to match.
func (e *Entry) SetContent(data []byte) {
	e.data = data
	e.Size = uint32(len(data))
}

// ClearContent drops materialized content so the next Content call reads
// from the stream again.
func (e *Entry) ClearContent() { e.data = nil }

// nameBytes is the on-disk form of the filename. Names loaded from legacy
// archives keep their original bytes; everything else is UTF-8.
func (e *Entry) nameBytes() []byte {
	if e.rawName != nil {
		return e.rawName
	}
	return []byte(e.Name)
}

// serializedSize is the number of bytes the entry occupies in the owning
// directory's content block: the raw size for leaves, header plus table
// plus children for subgroups.
func (e *Entry) serializedSize() int64 {
	if e.Dir != nil {
		return e.Dir.serializedSize()
	}
	return int64(e.Size)
}

// Directory is a group node: header metadata plus an ordered child list.
// Child order is the on-disk order and is preserved on round-trips.
type Directory struct {
	Author       string
	VersionMajor int32
	VersionMinor int32
	ModTime      time.Time

	// Original reports whether the reserved header field carried the
	// sentinel marking a group that is not a re-export of another format
	// variant.
	Original bool

	Entries []*Entry
}

// Entry returns the child with the given decoded name, or nil.
func (d *Directory) Entry(name string) *Entry {
	for _, e := range d.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// AddFile appends a leaf entry with materialized content and returns it.
func (d *Directory) AddFile(name string, data []byte) *Entry {
	e := &Entry{Name: name, ModTime: time.Now()}
	e.SetContent(data)
	d.Entries = append(d.Entries, e)
	return e
}

// AddDirectory appends a subgroup entry and returns the new directory.
// Author, version and the original flag are inherited from the parent.
func (d *Directory) AddDirectory(name string) *Directory {
	sub := &Directory{
		Author:       d.Author,
		VersionMajor: d.VersionMajor,
		VersionMinor: d.VersionMinor,
		Original:     d.Original,
		ModTime:      time.Now(),
	}
	d.Entries = append(d.Entries, &Entry{Name: name, ModTime: sub.ModTime, Dir: sub})
	return sub
}

func (d *Directory) serializedSize() int64 {
	n := int64(headerSize) + int64(entryCoreSize)*int64(len(d.Entries))
	for _, e := range d.Entries {
		n += e.serializedSize()
	}
	return n
}
