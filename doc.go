// Copyright (c) 2026 clonklabs
// SPDX-License-Identifier: MIT

/*
Package c4group reads and writes C4Group archives, the container format used
by the Clonk series of games.

A group file is a gzip stream whose first two magic bytes are replaced with
0x1E 0x8C on disk. Inside, a group is a recursive tree: a scrambled 204-byte
directory header, a table of 316-byte entry records, and the concatenated
content of each entry, with nested groups repeating the same layout.

# Basic Usage

Opening and extracting an archive:

	group, err := c4group.Open("Objects.c4d")
	if err != nil {
		log.Fatal(err)
	}
	if err := group.Explode(); err != nil {
		log.Fatal(err)
	}

Building an archive from scratch:

	group := c4group.New("MyPack.c4g")
	group.Root.Author = "Tester"
	group.Root.AddFile("Readme.txt", []byte("hello"))
	sub := group.Root.AddDirectory("Sub")
	sub.AddFile("a.bin", []byte{0x00, 0x01})
	if err := group.Save(); err != nil {
		log.Fatal(err)
	}

Rebuilding a previously exploded archive replaces the directory tree with
the archive file again:

	if err := group.Pack(); err != nil {
		log.Fatal(err)
	}

# Filenames

Entry names are NUL-free byte sequences, unique within one directory. Modern
group files use UTF-8; archives produced by older tools use Windows-1252,
which is detected by trial decode.

# Limitations

  - Whole archives are held in memory; streaming very large groups is out
    of scope.
  - A load/save (or Explode/Pack) cycle must run to completion before
    another begins on the same path; nothing here is safe for concurrent
    use.
*/
package c4group
