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

import "unsafe"

const (
	// Magic is the value every ext2 superblock carries in its Magic field.
	Magic uint16 = 0xEF53

	// Offset is the byte offset of the primary superblock inside an image.
	Offset = 1024

	// Size is the on-disk size of the superblock record.
	Size = 1024

	// Align is the alignment the backing memory of a view must satisfy.
	Align = 4

	// MagicOffset is the byte offset of the Magic field inside the record.
	MagicOffset = 56
)

// Revision levels.
const (
	GoodOldRev = 0
	DynamicRev = 1

	// GoodOldInodeSize is the fixed inode size of revision 0 filesystems.
	GoodOldInodeSize = 128
	// GoodOldFirstInode is the first non-reserved inode of revision 0 filesystems.
	GoodOldFirstInode = 11
)

// Superblock is the ext2 revision 1 on-disk superblock. The field order and
// widths match struct ext2_super_block; all multi-byte fields are little-endian.
//
// Values of this type are not meant to be allocated; use the view
// constructors to interpret existing bytes as a Superblock.
type Superblock struct {
	InodesCount         uint32
	BlocksCount         uint32
	ReservedBlocksCount uint32
	FreeBlocksCount     uint32
	FreeInodesCount     uint32
	FirstDataBlock      uint32
	LogBlockSize        uint32
	LogFragSize         uint32
	BlocksPerGroup      uint32
	FragsPerGroup       uint32
	InodesPerGroup      uint32
	MountTime           uint32
	WriteTime           uint32
	MountCount          uint16
	MaxMountCount       int16
	Magic               uint16
	State               State
	Errors              ErrorPolicy
	MinorRevLevel       uint16
	LastCheck           uint32
	CheckInterval       uint32
	CreatorOS           CreatorOS
	RevLevel            uint32
	DefResUID           uint16
	DefResGID           uint16

	// EXT2_DYNAMIC_REV only.
	FirstInode           uint32
	InodeSize            uint16
	BlockGroupNr         uint16
	FeatureCompat        CompatFeature
	FeatureIncompat      IncompatFeature
	FeatureROCompat      ROCompatFeature
	UUID                 [16]byte
	VolumeName           [16]byte
	LastMounted          [64]byte
	AlgorithmUsageBitmap uint32

	// Performance hints.
	PreallocBlocks    uint8
	PreallocDirBlocks uint8
	_                 uint16

	// Journaling support, valid if CompatHasJournal is set.
	JournalUUID    [16]byte
	JournalInode   uint32
	JournalDev     uint32
	LastOrphan     uint32
	HashSeed       [4]uint32
	DefHashVersion uint8
	_              uint8
	_              uint16

	DefaultMountOpts uint32
	FirstMetaBG      uint32
	_                [190]uint32
}

// Compiles only if Superblock is exactly Size bytes.
var _ [Size - unsafe.Sizeof(Superblock{})]byte
var _ [unsafe.Sizeof(Superblock{}) - Size]byte

// Compiles only if Magic sits at MagicOffset.
var _ [MagicOffset - unsafe.Offsetof(Superblock{}.Magic)]byte
var _ [unsafe.Offsetof(Superblock{}.Magic) - MagicOffset]byte

// BlockSize returns the filesystem block size in bytes.
func (sb *Superblock) BlockSize() uint64 {
	return 1024 << sb.LogBlockSize
}

// InodeSizeBytes returns the on-disk inode size, honouring revision 0 defaults.
func (sb *Superblock) InodeSizeBytes() uint16 {
	if sb.RevLevel == GoodOldRev {
		return GoodOldInodeSize
	}
	return sb.InodeSize
}

// FirstNonReservedInode returns the first inode usable for regular files.
func (sb *Superblock) FirstNonReservedInode() uint32 {
	if sb.RevLevel == GoodOldRev {
		return GoodOldFirstInode
	}
	return sb.FirstInode
}

// GroupCount returns the number of block groups.
func (sb *Superblock) GroupCount() uint32 {
	if sb.BlocksPerGroup == 0 || sb.BlocksCount <= sb.FirstDataBlock {
		return 0
	}
	// Rounding up overflows uint32 near 2^32 blocks.
	blocks := uint64(sb.BlocksCount - sb.FirstDataBlock)
	perGroup := uint64(sb.BlocksPerGroup)
	return uint32((blocks + perGroup - 1) / perGroup)
}
