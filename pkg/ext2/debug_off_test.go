//go:build !ext2debug

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
	"unsafe"

	"golang.org/x/sys/cpu"
)

func TestUncheckedViewKeepsBadMagic(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	buf := loadFixture(t)
	corruptMagic(buf, 0x0bad)

	v := FromBytes(buf)
	if v.Magic() != 0x0bad {
		t.Fatalf("magic: expected: %#x, got: %#x", 0x0bad, v.Magic())
	}
	if sb := FromAddrMut(unsafe.Pointer(&buf[0])); sb.Magic != 0x0bad {
		t.Fatalf("mutable magic: expected: %#x, got: %#x", 0x0bad, sb.Magic)
	}
	if err := Validate(v.sb); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Validate: expected: %v, got: %v", ErrBadMagic, err)
	}
	if err := v.Check(); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Check: expected: %v, got: %v", ErrBadMagic, err)
	}
}
