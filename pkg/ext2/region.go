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
	"sync"
	"unsafe"
)

// Region owns the bytes of a superblock and hands out views of them under
// the rule "one mutable view or any number of read-only views". Views are
// obtained through borrow tokens which stop working once released.
type Region struct {
	mutex   sync.Mutex
	buf     []byte
	readers int
	writer  bool
	closed  bool
}

// NewRegion checks b like Parse does and takes ownership of it. The caller
// must not touch b until the region is closed.
func NewRegion(b []byte) (*Region, error) {
	if _, err := Parse(b); err != nil {
		return nil, err
	}
	return &Region{buf: b[:Size:Size]}, nil
}

func (r *Region) addr() unsafe.Pointer {
	return unsafe.Pointer(&r.buf[0])
}

// Borrow returns a shared borrow token.
func (r *Region) Borrow() (*Ref, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	switch {
	case r.closed:
		return nil, ErrClosed
	case r.writer:
		return nil, ErrBorrowed
	}
	r.readers++
	return &Ref{region: r}, nil
}

// BorrowMut returns an exclusive borrow token.
func (r *Region) BorrowMut() (*MutRef, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	switch {
	case r.closed:
		return nil, ErrClosed
	case r.writer, r.readers != 0:
		return nil, ErrBorrowed
	}
	r.writer = true
	return &MutRef{region: r}, nil
}

// Borrowed reports whether any borrow is live.
func (r *Region) Borrowed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.writer || r.readers != 0
}

// Close gives up the region. It fails with ErrBorrowed while borrows are live.
func (r *Region) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return nil
	}
	if r.writer || r.readers != 0 {
		return ErrBorrowed
	}
	r.closed = true
	r.buf = nil
	return nil
}

// Ref is a shared borrow of a Region.
type Ref struct {
	region   *Region
	released bool
}

// View returns the read-only view granted by the token.
func (ref *Ref) View() (View, error) {
	r := ref.region
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ref.released {
		return View{}, ErrReleased
	}
	return View{sb: (*Superblock)(r.addr())}, nil
}

// Release ends the borrow. Views obtained from the token must not be used
// afterwards. Release is idempotent.
func (ref *Ref) Release() {
	r := ref.region
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !ref.released {
		ref.released = true
		r.readers--
	}
}

// MutRef is an exclusive borrow of a Region.
type MutRef struct {
	region   *Region
	released bool
}

// Superblock returns the mutable view granted by the token.
func (ref *MutRef) Superblock() (*Superblock, error) {
	r := ref.region
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ref.released {
		return nil, ErrReleased
	}
	return (*Superblock)(r.addr()), nil
}

// Release ends the borrow. The pointer obtained from the token must not be
// used afterwards. Release is idempotent.
func (ref *MutRef) Release() {
	r := ref.region
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !ref.released {
		ref.released = true
		r.writer = false
	}
}
