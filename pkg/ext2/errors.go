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
)

var (
	// ErrShortBuffer denotes a region smaller than Size.
	ErrShortBuffer = errors.New("buffer is smaller than the superblock")

	// ErrMisaligned denotes a region whose start is not aligned to Align.
	ErrMisaligned = errors.New("buffer is not aligned for the superblock")

	// ErrByteOrder denotes a big-endian host, which cannot alias the on-disk record.
	ErrByteOrder = errors.New("host byte order is not little-endian")

	// ErrBadMagic denotes a superblock whose magic is not Magic.
	ErrBadMagic = errors.New("bad superblock magic")

	// ErrBorrowed denotes a borrow conflicting with a live borrow of the same region.
	ErrBorrowed = errors.New("region is already borrowed")

	// ErrReleased denotes use of a view token after it was released.
	ErrReleased = errors.New("view is released")

	// ErrClosed denotes use of a closed region.
	ErrClosed = errors.New("region is closed")
)

// MagicError is returned, or raised as a panic value by debug builds, when
// the identity field of a record does not hold Magic.
type MagicError struct {
	Found uint16
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("%v; expected: %#04x, found: %#04x", ErrBadMagic, Magic, e.Found)
}

// Is lets errors.Is match ErrBadMagic.
func (e *MagicError) Is(target error) bool {
	return target == ErrBadMagic
}
