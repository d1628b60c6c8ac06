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
	"encoding/binary"
	"errors"
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/cpu"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/superblock.bin")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != Size {
		t.Fatalf("fixture size: expected: %v, got: %v", Size, len(data))
	}
	return Copy(data)
}

func corruptMagic(buf []byte, magic uint16) {
	binary.LittleEndian.PutUint16(buf[MagicOffset:], magic)
}

func TestFromBytesFixture(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	v := FromBytes(loadFixture(t))

	if v.Magic() != Magic {
		t.Fatalf("magic: expected: %#x, got: %#x", Magic, v.Magic())
	}

	testCases := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"inodes", v.InodesCount(), uint32(2048)},
		{"blocks", v.BlocksCount(), uint32(8192)},
		{"reserved blocks", v.ReservedBlocksCount(), uint32(409)},
		{"free blocks", v.FreeBlocksCount(), uint32(7855)},
		{"free inodes", v.FreeInodesCount(), uint32(2037)},
		{"first data block", v.FirstDataBlock(), uint32(1)},
		{"block size", v.BlockSize(), uint64(1024)},
		{"groups", v.GroupCount(), uint32(1)},
		{"max mount count", v.MaxMountCount(), int16(-1)},
		{"state", v.State(), StateValid},
		{"errors", v.Errors(), ErrorsContinue},
		{"revision", v.RevLevel(), uint32(DynamicRev)},
		{"first inode", v.FirstInode(), uint32(11)},
		{"inode size", v.InodeSize(), uint16(256)},
		{"uuid", v.UUID().String(), "2dc39938-8a84-4078-abec-159bfae4aa0f"},
		{"volume name", v.VolumeName(), "fixture"},
		{"last mounted", v.LastMounted(), ""},
		{"total capacity", v.TotalCapacity(), uint64(8192 * 1024)},
		{"free capacity", v.FreeCapacity(), uint64(7855 * 1024)},
		{"write time", v.WriteTime().Unix(), int64(1700000000)},
		{"mount time", v.MountTime().IsZero(), true},
		{"compat", v.FeatureCompat().String(), "ext_attr,resize_inode,dir_index"},
		{"incompat", v.FeatureIncompat().String(), "filetype"},
		{"ro_compat", v.FeatureROCompat().String(), "sparse_super,large_file"},
	}

	for i, testCase := range testCases {
		if testCase.got != testCase.expected {
			t.Fatalf("case %v: %v: expected: %v, got: %v", i+1, testCase.name, testCase.expected, testCase.got)
		}
	}
}

func TestAddrAndBytesAgree(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	buf := loadFixture(t)
	byAddr := FromAddr(unsafe.Pointer(&buf[0]))
	byBytes := FromBytes(buf)

	if byAddr.sb != byBytes.sb {
		t.Fatalf("views point to different memory: %p, %p", byAddr.sb, byBytes.sb)
	}
	if byAddr.Snapshot() != byBytes.Snapshot() {
		t.Fatalf("field values differ")
	}

	mutByAddr := FromAddrMut(unsafe.Pointer(&buf[0]))
	mutByBytes := FromBytesMut(buf)
	if mutByAddr != mutByBytes || mutByAddr != byBytes.sb {
		t.Fatalf("mutable views point to different memory")
	}
}

func TestMutableViewWritesThrough(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	buf := loadFixture(t)

	func() {
		sb := FromBytesMut(buf)
		sb.MountCount = 7
		sb.FreeBlocksCount--
	}()

	v := FromBytes(buf)
	if v.MountCount() != 7 {
		t.Fatalf("mount count: expected: 7, got: %v", v.MountCount())
	}
	if v.FreeBlocksCount() != 7854 {
		t.Fatalf("free blocks: expected: 7854, got: %v", v.FreeBlocksCount())
	}
	if got := binary.LittleEndian.Uint16(buf[52:]); got != 7 {
		t.Fatalf("raw mount count: expected: 7, got: %v", got)
	}
	if v.Magic() != Magic {
		t.Fatalf("magic changed to %#x", v.Magic())
	}
	if &v.Bytes()[0] != &buf[0] {
		t.Fatalf("view does not alias the buffer")
	}
}

func TestParse(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	fixture := loadFixture(t)
	misaligned := Aligned(Size + 1)[1:]
	copy(misaligned, fixture)
	corrupted := Copy(fixture)
	corruptMagic(corrupted, 0x1234)

	testCases := []struct {
		buf         []byte
		expectedErr error
	}{
		{fixture, nil},
		{Copy(fixture[:Size-1]), ErrShortBuffer},
		{[]byte{}, ErrShortBuffer},
		{nil, ErrShortBuffer},
		{misaligned, ErrMisaligned},
		{corrupted, ErrBadMagic},
	}

	for i, testCase := range testCases {
		v, err := Parse(testCase.buf)
		if !errors.Is(err, testCase.expectedErr) {
			t.Fatalf("case %v: Parse: expected: %v, got: %v", i+1, testCase.expectedErr, err)
		}
		if err == nil && v.Magic() != Magic {
			t.Fatalf("case %v: magic: expected: %#x, got: %#x", i+1, Magic, v.Magic())
		}

		sb, err := ParseMut(testCase.buf)
		if !errors.Is(err, testCase.expectedErr) {
			t.Fatalf("case %v: ParseMut: expected: %v, got: %v", i+1, testCase.expectedErr, err)
		}
		if err == nil && sb != v.sb {
			t.Fatalf("case %v: Parse and ParseMut disagree", i+1)
		}
	}
}

func TestValidate(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	buf := loadFixture(t)
	sb := (*Superblock)(unsafe.Pointer(&buf[0]))
	if err := Validate(sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sb.Magic = 0xbeef
	err := Validate(sb)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected: %v, got: %v", ErrBadMagic, err)
	}
	var magicErr *MagicError
	if !errors.As(err, &magicErr) || magicErr.Found != 0xbeef {
		t.Fatalf("expected MagicError with 0xbeef, got: %#v", err)
	}
}

func TestAligned(t *testing.T) {
	for _, n := range []int{0, 1, 7, Size, Size + 3} {
		buf := Aligned(n)
		if len(buf) != n {
			t.Fatalf("length: expected: %v, got: %v", n, len(buf))
		}
		if n > 0 && uintptr(unsafe.Pointer(&buf[0]))%Align != 0 {
			t.Fatalf("buffer of %v bytes is misaligned", n)
		}
	}
}
