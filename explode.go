// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

package c4group

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Explode extracts the group into a real directory tree at the archive
// path. The archive file is first renamed to a numbered backup so the
// extraction cannot clobber it; the backup is deleted only after the whole
// tree has been written. On a mid-walk failure, already-written siblings
// and the backup stay on disk.
func (g *Group) Explode() error {
	backup := backupPath(g.path)
	if _, err := os.Lstat(backup); err == nil {
		return fmt.Errorf("%w: backup name %s already taken", ErrFilesystem, backup)
	}
	if err := os.Rename(g.path, backup); err != nil {
		return fmt.Errorf("%w: create backup file: %v", ErrFilesystem, err)
	}

	if err := explodeDirectory(g.Root, g.path); err != nil {
		return err
	}

	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("%w: remove backup file: %v", ErrFilesystem, err)
	}
	return nil
}

// backupPath derives the backup name for an archive: the base name up to
// its first dot, with a .000 suffix.
func backupPath(path string) string {
	dir, base := filepath.Split(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return filepath.Join(dir, base+".000")
}

func explodeDirectory(d *Directory, path string) error {
	if err := os.Mkdir(path, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrFilesystem, path, err)
	}

	for _, e := range d.Entries {
		target := filepath.Join(path, e.Name)

		if e.Dir != nil {
			if err := explodeDirectory(e.Dir, target); err != nil {
				return err
			}
			continue
		}

		content, err := e.Content()
		if err != nil {
			return err
		}
		mode := os.FileMode(0644)
		if e.Executable {
			mode = 0755
		}
		if err := os.WriteFile(target, content, mode); err != nil {
			return fmt.Errorf("%w: write file %s: %v", ErrFilesystem, target, err)
		}
	}

	return nil
}
