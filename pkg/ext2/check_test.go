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
	"testing"

	"go.uber.org/multierr"
	"golang.org/x/sys/cpu"
)

func TestCheck(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	testCases := []struct {
		mutate      func(sb *Superblock)
		expectErr   error
		problemsLen int
	}{
		{func(sb *Superblock) {}, nil, 0},
		{func(sb *Superblock) { sb.Magic = 0 }, ErrBadMagic, 1},
		{func(sb *Superblock) { sb.LogBlockSize = 12 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.RevLevel = 2 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.InodeSize = 200 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.InodeSize = 2048 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.FirstInode = 2 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.FreeBlocksCount = sb.BlocksCount + 1 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.ReservedBlocksCount = sb.BlocksCount + 1 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.FreeInodesCount = sb.InodesCount + 1 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.FirstDataBlock = 0 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.State = 0x10 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.Errors = 9 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.InodesPerGroup = 1024 }, ErrInconsistent, 1},
		{func(sb *Superblock) { sb.BlocksPerGroup = 0 }, ErrInconsistent, 1},
		{
			func(sb *Superblock) {
				sb.FreeBlocksCount = sb.BlocksCount + 1
				sb.FreeInodesCount = sb.InodesCount + 1
				sb.Errors = 9
			},
			ErrInconsistent,
			3,
		},
		{
			// 16 TiB at 4 KiB blocks, 131072 groups of 16 inodes.
			func(sb *Superblock) { largeGeometry(sb, 131072*16) },
			nil,
			0,
		},
		{func(sb *Superblock) { largeGeometry(sb, 131071*16) }, ErrInconsistent, 1},
		{
			// Revision 0 ignores the dynamic fields.
			func(sb *Superblock) {
				sb.RevLevel = GoodOldRev
				sb.InodeSize = 0
				sb.FirstInode = 0
			},
			nil,
			0,
		},
	}

	for i, testCase := range testCases {
		buf := loadFixture(t)
		sb := FromBytesMut(buf)
		testCase.mutate(sb)

		err := sb.Check()
		if testCase.expectErr == nil {
			if err != nil {
				t.Fatalf("case %v: unexpected error: %v", i+1, err)
			}
			continue
		}

		if !errors.Is(err, testCase.expectErr) {
			t.Fatalf("case %v: expected: %v, got: %v", i+1, testCase.expectErr, err)
		}
		if problems := multierr.Errors(err); len(problems) != testCase.problemsLen {
			t.Fatalf("case %v: problems: expected: %v, got: %v (%v)", i+1, testCase.problemsLen, len(problems), err)
		}
	}
}

func largeGeometry(sb *Superblock, inodes uint32) {
	sb.LogBlockSize = 2
	sb.FirstDataBlock = 0
	sb.BlocksCount = 0xFFFFFFFF
	sb.BlocksPerGroup = 32768
	sb.InodesPerGroup = 16
	sb.InodesCount = inodes
}

func TestGroupCount(t *testing.T) {
	testCases := []struct {
		sb       Superblock
		expected uint32
	}{
		{Superblock{BlocksCount: 8192, FirstDataBlock: 1, BlocksPerGroup: 8192}, 1},
		{Superblock{BlocksCount: 8193, FirstDataBlock: 1, BlocksPerGroup: 8192}, 1},
		{Superblock{BlocksCount: 8194, FirstDataBlock: 1, BlocksPerGroup: 8192}, 2},
		{Superblock{BlocksCount: 0xFFFFFFFF, BlocksPerGroup: 32768}, 131072},
		{Superblock{BlocksCount: 0xFFFFFFFF, BlocksPerGroup: 1}, 0xFFFFFFFF},
		{Superblock{BlocksCount: 1, FirstDataBlock: 1, BlocksPerGroup: 8192}, 0},
		{Superblock{BlocksCount: 8192}, 0},
	}

	for i, testCase := range testCases {
		if groups := testCase.sb.GroupCount(); groups != testCase.expected {
			t.Fatalf("case %v: groups: expected: %v, got: %v", i+1, testCase.expected, groups)
		}
	}
}

func TestRevisionZeroDefaults(t *testing.T) {
	sb := &Superblock{RevLevel: GoodOldRev, InodeSize: 512, FirstInode: 99}
	if sb.InodeSizeBytes() != GoodOldInodeSize {
		t.Fatalf("inode size: expected: %v, got: %v", GoodOldInodeSize, sb.InodeSizeBytes())
	}
	if sb.FirstNonReservedInode() != GoodOldFirstInode {
		t.Fatalf("first inode: expected: %v, got: %v", GoodOldFirstInode, sb.FirstNonReservedInode())
	}
}

func TestUnsupported(t *testing.T) {
	sb := &Superblock{FeatureIncompat: IncompatFiletype | IncompatRecover | IncompatCompression}
	if got := sb.Unsupported(); got != IncompatRecover|IncompatCompression {
		t.Fatalf("expected: %v, got: %v", IncompatRecover|IncompatCompression, got)
	}
	if sb.Clean() {
		t.Fatalf("zero state must not be clean")
	}
}
