// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"
)

// Pack rebuilds the archive from the exploded directory tree at the group's
// path, depth-first. Entries whose backing filesystem object disappeared
// are dropped; files and directories added on disk become new entries. The
// real tree is removed and replaced by the rebuilt archive file.
func (g *Group) Pack() error {
	if err := packDirectory(g.Root, g.path); err != nil {
		return err
	}
	return g.Save()
}

func packDirectory(d *Directory, path string) error {
	kept := d.Entries[:0]
	seen := make(map[string]bool, len(d.Entries))

	for _, e := range d.Entries {
		target := filepath.Join(path, e.Name)

		info, err := os.Lstat(target)
		if err != nil {
			// No backing filesystem object: the entry was deleted.
			continue
		}

		switch {
		case info.IsDir() && e.Dir != nil:
			if err := packDirectory(e.Dir, target); err != nil {
				return err
			}
			e.ModTime = info.ModTime()
		case !info.IsDir() && e.Dir == nil:
			if err := packFileEntry(e, target, info); err != nil {
				return err
			}
		default:
			// The object changed kind on disk; the stale entry is
			// dropped and the disk object picked up as new below.
			continue
		}
		kept = append(kept, e)
		seen[e.Name] = true
	}
	d.Entries = kept

	if err := appendNewEntries(d, path, seen); err != nil {
		return err
	}

	if err := removeAllRetry(path); err != nil {
		return fmt.Errorf("%w: remove directory %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// packFileEntry materializes a leaf entry from its backing file. The CRC is
// refreshed only for entries that already carried one, so packing an
// untouched tree reproduces the saved record bytes.
func packFileEntry(e *Entry, path string, info os.FileInfo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read file %s: %v", ErrFilesystem, path, err)
	}

	e.SetContent(data)
	e.ModTime = info.ModTime()
	e.Executable = info.Mode()&0111 != 0
	if e.HasCRC {
		e.CRC = crc32.ChecksumIEEE(data)
	}
	return nil
}

// appendNewEntries adds entries for filesystem objects that appeared after
// the tree was exploded. os.ReadDir sorts by name, so new entries land in a
// deterministic order.
func appendNewEntries(d *Directory, path string, seen map[string]bool) error {
	listing, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("%w: list directory %s: %v", ErrFilesystem, path, err)
	}

	for _, ent := range listing {
		if seen[ent.Name()] {
			continue
		}
		target := filepath.Join(path, ent.Name())

		info, err := ent.Info()
		if err != nil {
			return fmt.Errorf("%w: stat %s: %v", ErrFilesystem, target, err)
		}

		if ent.IsDir() {
			sub := d.AddDirectory(ent.Name())
			d.Entries[len(d.Entries)-1].ModTime = info.ModTime()
			if err := packDirectory(sub, target); err != nil {
				return err
			}
			continue
		}

		e := &Entry{Name: ent.Name(), HasCRC: true}
		if err := packFileEntry(e, target, info); err != nil {
			return err
		}
		d.Entries = append(d.Entries, e)
	}

	return nil
}

// removeAllRetry removes a directory tree, retrying briefly when the
// filesystem transiently denies removal.
func removeAllRetry(path string) error {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		if err = os.RemoveAll(path); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return err
}
