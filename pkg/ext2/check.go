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
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInconsistent is wrapped by every problem reported by Check.
var ErrInconsistent = errors.New("inconsistent superblock")

// MaxLogBlockSize is the largest supported LogBlockSize (64 KiB blocks).
const MaxLogBlockSize = 6

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w; "+format, append([]interface{}{ErrInconsistent}, args...)...)
}

// Check validates the record beyond its magic, the way a mount would before
// trusting geometry. All problems found are returned combined; use
// multierr.Errors to split them.
func (sb *Superblock) Check() (err error) {
	if verr := Validate(sb); verr != nil {
		return verr
	}

	if sb.LogBlockSize > MaxLogBlockSize {
		// Everything below depends on the block size.
		return inconsistent("log block size %v out of range", sb.LogBlockSize)
	}
	blockSize := sb.BlockSize()

	if sb.RevLevel > DynamicRev {
		err = multierr.Append(err, inconsistent("unsupported revision level %v", sb.RevLevel))
	}

	if sb.RevLevel >= DynamicRev {
		inodeSize := uint64(sb.InodeSize)
		if inodeSize < GoodOldInodeSize || inodeSize > blockSize || inodeSize&(inodeSize-1) != 0 {
			err = multierr.Append(err, inconsistent("invalid inode size %v", sb.InodeSize))
		}
		if sb.FirstInode < GoodOldFirstInode {
			err = multierr.Append(err, inconsistent("first inode %v is reserved", sb.FirstInode))
		}
	}

	if sb.BlocksCount == 0 {
		err = multierr.Append(err, inconsistent("zero blocks count"))
	}
	if sb.InodesCount == 0 {
		err = multierr.Append(err, inconsistent("zero inodes count"))
	}
	if sb.FreeBlocksCount > sb.BlocksCount {
		err = multierr.Append(err, inconsistent("free blocks %v exceed blocks %v", sb.FreeBlocksCount, sb.BlocksCount))
	}
	if sb.ReservedBlocksCount > sb.BlocksCount {
		err = multierr.Append(err, inconsistent("reserved blocks %v exceed blocks %v", sb.ReservedBlocksCount, sb.BlocksCount))
	}
	if sb.FreeInodesCount > sb.InodesCount {
		err = multierr.Append(err, inconsistent("free inodes %v exceed inodes %v", sb.FreeInodesCount, sb.InodesCount))
	}

	var expectedFirstDataBlock uint32
	if blockSize == 1024 {
		expectedFirstDataBlock = 1
	}
	if sb.FirstDataBlock != expectedFirstDataBlock {
		err = multierr.Append(err, inconsistent("first data block %v, expected %v", sb.FirstDataBlock, expectedFirstDataBlock))
	}

	bitsPerBlock := 8 * blockSize
	if sb.BlocksPerGroup == 0 || uint64(sb.BlocksPerGroup) > bitsPerBlock {
		err = multierr.Append(err, inconsistent("invalid blocks per group %v", sb.BlocksPerGroup))
	}
	if sb.InodesPerGroup == 0 || uint64(sb.InodesPerGroup) > bitsPerBlock {
		err = multierr.Append(err, inconsistent("invalid inodes per group %v", sb.InodesPerGroup))
	}
	if groups := sb.GroupCount(); groups != 0 && sb.InodesPerGroup != 0 {
		if uint64(groups)*uint64(sb.InodesPerGroup) != uint64(sb.InodesCount) {
			err = multierr.Append(err, inconsistent("inodes count %v does not match %v groups of %v inodes", sb.InodesCount, groups, sb.InodesPerGroup))
		}
	}

	if sb.State&^(StateValid|StateErrors) != 0 {
		err = multierr.Append(err, inconsistent("unknown state %#x", uint16(sb.State)))
	}
	if sb.Errors > ErrorsPanic {
		err = multierr.Append(err, inconsistent("unknown error policy %v", uint16(sb.Errors)))
	}

	return err
}

// Clean reports whether the filesystem was cleanly unmounted without errors.
func (sb *Superblock) Clean() bool {
	return sb.State == StateValid
}

// Unsupported returns the incompatible features an ext2 reader cannot handle.
func (sb *Superblock) Unsupported() IncompatFeature {
	return sb.FeatureIncompat &^ IncompatSupported
}
