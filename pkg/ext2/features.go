// This file is part of MinIO ext2sb
// Copyright (c) 2022 MinIO, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package ext2

import (
	"fmt"
	"strings"
)

// State is the filesystem state recorded in the superblock.
type State uint16

// Filesystem states.
const (
	StateValid  State = 0x0001 // cleanly unmounted
	StateErrors State = 0x0002 // errors detected
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "clean"
	case StateErrors:
		return "errors"
	case StateValid | StateErrors:
		return "clean-with-errors"
	case 0:
		return "not-clean"
	}
	return fmt.Sprintf("unknown(%#x)", uint16(s))
}

// ErrorPolicy is the behaviour of the kernel when detecting errors.
type ErrorPolicy uint16

// Error policies.
const (
	ErrorsContinue ErrorPolicy = 1
	ErrorsRO       ErrorPolicy = 2
	ErrorsPanic    ErrorPolicy = 3
)

func (e ErrorPolicy) String() string {
	switch e {
	case ErrorsContinue:
		return "continue"
	case ErrorsRO:
		return "remount-ro"
	case ErrorsPanic:
		return "panic"
	}
	return fmt.Sprintf("unknown(%d)", uint16(e))
}

// CreatorOS identifies the operating system which created the filesystem.
type CreatorOS uint32

// Creator operating systems.
const (
	OSLinux   CreatorOS = 0
	OSHurd    CreatorOS = 1
	OSMasix   CreatorOS = 2
	OSFreeBSD CreatorOS = 3
	OSLites   CreatorOS = 4
)

func (o CreatorOS) String() string {
	switch o {
	case OSLinux:
		return "Linux"
	case OSHurd:
		return "Hurd"
	case OSMasix:
		return "Masix"
	case OSFreeBSD:
		return "FreeBSD"
	case OSLites:
		return "Lites"
	}
	return fmt.Sprintf("unknown(%d)", uint32(o))
}

// CompatFeature is the compatible feature set.
type CompatFeature uint32

// Compatible features.
const (
	CompatDirPrealloc  CompatFeature = 0x0001
	CompatImagicInodes CompatFeature = 0x0002
	CompatHasJournal   CompatFeature = 0x0004
	CompatExtAttr      CompatFeature = 0x0008
	CompatResizeInode  CompatFeature = 0x0010
	CompatDirIndex     CompatFeature = 0x0020
)

// IncompatFeature is the incompatible feature set.
type IncompatFeature uint32

// Incompatible features.
const (
	IncompatCompression IncompatFeature = 0x0001
	IncompatFiletype    IncompatFeature = 0x0002
	IncompatRecover     IncompatFeature = 0x0004
	IncompatJournalDev  IncompatFeature = 0x0008
	IncompatMetaBG      IncompatFeature = 0x0010

	// IncompatSupported is the set of incompatible features an ext2 reader
	// is expected to handle.
	IncompatSupported = IncompatFiletype | IncompatMetaBG
)

// ROCompatFeature is the read-only compatible feature set.
type ROCompatFeature uint32

// Read-only compatible features.
const (
	ROCompatSparseSuper ROCompatFeature = 0x0001
	ROCompatLargeFile   ROCompatFeature = 0x0002
	ROCompatBtreeDir    ROCompatFeature = 0x0004

	// ROCompatSupported is the set of read-only compatible features an ext2
	// writer is expected to handle.
	ROCompatSupported = ROCompatSparseSuper | ROCompatLargeFile | ROCompatBtreeDir
)

var compatNames = []struct {
	flag CompatFeature
	name string
}{
	{CompatDirPrealloc, "dir_prealloc"},
	{CompatImagicInodes, "imagic_inodes"},
	{CompatHasJournal, "has_journal"},
	{CompatExtAttr, "ext_attr"},
	{CompatResizeInode, "resize_inode"},
	{CompatDirIndex, "dir_index"},
}

var incompatNames = []struct {
	flag IncompatFeature
	name string
}{
	{IncompatCompression, "compression"},
	{IncompatFiletype, "filetype"},
	{IncompatRecover, "needs_recovery"},
	{IncompatJournalDev, "journal_dev"},
	{IncompatMetaBG, "meta_bg"},
}

var roCompatNames = []struct {
	flag ROCompatFeature
	name string
}{
	{ROCompatSparseSuper, "sparse_super"},
	{ROCompatLargeFile, "large_file"},
	{ROCompatBtreeDir, "btree_dir"},
}

// Has reports whether all bits of f are set.
func (c CompatFeature) Has(f CompatFeature) bool { return c&f == f }

// Has reports whether all bits of f are set.
func (c IncompatFeature) Has(f IncompatFeature) bool { return c&f == f }

// Has reports whether all bits of f are set.
func (c ROCompatFeature) Has(f ROCompatFeature) bool { return c&f == f }

// Names returns the known feature names, plus a hex entry for unknown bits.
func (c CompatFeature) Names() []string {
	var names []string
	rest := c
	for _, n := range compatNames {
		if c.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("compat(%#x)", uint32(rest)))
	}
	return names
}

// Names returns the known feature names, plus a hex entry for unknown bits.
func (c IncompatFeature) Names() []string {
	var names []string
	rest := c
	for _, n := range incompatNames {
		if c.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("incompat(%#x)", uint32(rest)))
	}
	return names
}

// Names returns the known feature names, plus a hex entry for unknown bits.
func (c ROCompatFeature) Names() []string {
	var names []string
	rest := c
	for _, n := range roCompatNames {
		if c.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("ro_compat(%#x)", uint32(rest)))
	}
	return names
}

func (c CompatFeature) String() string   { return strings.Join(c.Names(), ",") }
func (c IncompatFeature) String() string { return strings.Join(c.Names(), ",") }
func (c ROCompatFeature) String() string { return strings.Join(c.Names(), ",") }
