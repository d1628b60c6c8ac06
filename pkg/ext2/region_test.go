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

	"golang.org/x/sys/cpu"
)

func newTestRegion(t *testing.T) *Region {
	t.Helper()
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}
	region, err := NewRegion(loadFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	return region
}

func TestNewRegionRejectsInvalid(t *testing.T) {
	if cpu.IsBigEndian {
		t.Skip("views alias little-endian records")
	}

	corrupted := loadFixture(t)
	corruptMagic(corrupted, 0)

	testCases := []struct {
		buf         []byte
		expectedErr error
	}{
		{Aligned(10), ErrShortBuffer},
		{corrupted, ErrBadMagic},
	}
	for i, testCase := range testCases {
		if _, err := NewRegion(testCase.buf); !errors.Is(err, testCase.expectedErr) {
			t.Fatalf("case %v: expected: %v, got: %v", i+1, testCase.expectedErr, err)
		}
	}
}

func TestRegionSharedBorrows(t *testing.T) {
	region := newTestRegion(t)

	ref1, err := region.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := region.Borrow()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := region.BorrowMut(); !errors.Is(err, ErrBorrowed) {
		t.Fatalf("BorrowMut with live readers: expected: %v, got: %v", ErrBorrowed, err)
	}

	v1, err := ref1.View()
	if err != nil {
		t.Fatal(err)
	}
	v2, err := ref2.View()
	if err != nil {
		t.Fatal(err)
	}
	if v1.Snapshot() != v2.Snapshot() {
		t.Fatalf("shared views differ")
	}

	ref1.Release()
	ref1.Release()
	if _, err := ref1.View(); !errors.Is(err, ErrReleased) {
		t.Fatalf("View after Release: expected: %v, got: %v", ErrReleased, err)
	}
	if !region.Borrowed() {
		t.Fatalf("region must still be borrowed by ref2")
	}

	ref2.Release()
	if region.Borrowed() {
		t.Fatalf("region must not be borrowed")
	}
}

func TestRegionExclusiveBorrow(t *testing.T) {
	region := newTestRegion(t)

	mref, err := region.BorrowMut()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := region.Borrow(); !errors.Is(err, ErrBorrowed) {
		t.Fatalf("Borrow with live writer: expected: %v, got: %v", ErrBorrowed, err)
	}
	if _, err := region.BorrowMut(); !errors.Is(err, ErrBorrowed) {
		t.Fatalf("BorrowMut with live writer: expected: %v, got: %v", ErrBorrowed, err)
	}
	if err := region.Close(); !errors.Is(err, ErrBorrowed) {
		t.Fatalf("Close with live writer: expected: %v, got: %v", ErrBorrowed, err)
	}

	sb, err := mref.Superblock()
	if err != nil {
		t.Fatal(err)
	}
	sb.MaxMountCount = 20
	mref.Release()

	if _, err := mref.Superblock(); !errors.Is(err, ErrReleased) {
		t.Fatalf("Superblock after Release: expected: %v, got: %v", ErrReleased, err)
	}

	ref, err := region.Borrow()
	if err != nil {
		t.Fatal(err)
	}
	v, err := ref.View()
	if err != nil {
		t.Fatal(err)
	}
	if v.MaxMountCount() != 20 || v.Magic() != Magic {
		t.Fatalf("unexpected view: max mount count %v, magic %#x", v.MaxMountCount(), v.Magic())
	}
	ref.Release()
}

func TestRegionClose(t *testing.T) {
	region := newTestRegion(t)

	if err := region.Close(); err != nil {
		t.Fatal(err)
	}
	if err := region.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := region.Borrow(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Borrow after Close: expected: %v, got: %v", ErrClosed, err)
	}
	if _, err := region.BorrowMut(); !errors.Is(err, ErrClosed) {
		t.Fatalf("BorrowMut after Close: expected: %v, got: %v", ErrClosed, err)
	}
}
