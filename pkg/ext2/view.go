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
	"unsafe"

	"golang.org/x/sys/cpu"
)

// FromAddr interprets the memory at addr as a superblock and returns a
// read-only view of it. Nothing is copied.
//
// The caller guarantees that addr is non-nil, aligned to Align, points to at
// least Size readable bytes which stay alive for as long as the view is used,
// and that no mutable view of the same bytes is used meanwhile. None of this
// is checked. Built with the ext2debug tag, a magic mismatch panics with a
// *MagicError; otherwise a record with a bad magic is returned as is.
func FromAddr(addr unsafe.Pointer) View {
	sb := (*Superblock)(addr)
	if DebugChecks {
		assertMagic(sb)
	}
	return View{sb: sb}
}

// FromAddrMut is FromAddr returning a mutable view. In addition to the
// FromAddr contract, the caller guarantees that no other view, mutable or
// not, of the same bytes is used while the returned one is.
func FromAddrMut(addr unsafe.Pointer) *Superblock {
	sb := (*Superblock)(addr)
	if DebugChecks {
		assertMagic(sb)
	}
	return sb
}

// FromBytes is FromAddr on the start of b. The length of b is not checked.
func FromBytes(b []byte) View {
	return FromAddr(unsafe.Pointer(&b[0]))
}

// FromBytesMut is FromAddrMut on the start of b. The length of b is not checked.
func FromBytesMut(b []byte) *Superblock {
	return FromAddrMut(unsafe.Pointer(&b[0]))
}

func assertMagic(sb *Superblock) {
	if sb.Magic != Magic {
		panic(&MagicError{Found: sb.Magic})
	}
}

// checkRegion verifies everything FromAddr relies on except exclusivity.
func checkRegion(b []byte) error {
	if len(b) < Size {
		return ErrShortBuffer
	}
	if uintptr(unsafe.Pointer(&b[0]))%Align != 0 {
		return ErrMisaligned
	}
	if cpu.IsBigEndian {
		return ErrByteOrder
	}
	return nil
}

// Parse returns a read-only view of b after checking its length, alignment
// and magic. Use Copy or Aligned to obtain a suitably aligned buffer.
func Parse(b []byte) (View, error) {
	if err := checkRegion(b); err != nil {
		return View{}, err
	}
	v := View{sb: (*Superblock)(unsafe.Pointer(&b[0]))}
	if err := Validate(v.sb); err != nil {
		return View{}, err
	}
	return v, nil
}

// ParseMut is Parse returning a mutable view. Exclusivity is still up to the
// caller; see Region for a checked alternative.
func ParseMut(b []byte) (*Superblock, error) {
	if err := checkRegion(b); err != nil {
		return nil, err
	}
	sb := (*Superblock)(unsafe.Pointer(&b[0]))
	if err := Validate(sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// Validate reports whether sb carries the ext2 magic. Unlike the debug
// assertion of the view constructors it runs in every build.
func Validate(sb *Superblock) error {
	if sb.Magic != Magic {
		return &MagicError{Found: sb.Magic}
	}
	return nil
}

// Aligned allocates n zeroed bytes whose start satisfies Align.
func Aligned(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

// Copy returns an aligned copy of b.
func Copy(b []byte) []byte {
	buf := Aligned(len(b))
	copy(buf, b)
	return buf
}
