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

// Package ext2 interprets raw bytes of an ext2 image as a superblock without
// copying them.
//
// FromAddr, FromAddrMut, FromBytes and FromBytesMut are trusted constructors:
// size, alignment, lifetime and exclusivity of the memory are the caller's
// responsibility, and the magic is asserted only when built with
//
//	go build -tags ext2debug
//
// Without the tag a record with a bad magic is handed out unchanged; callers
// which cannot vouch for their input use Parse, ParseMut or a Region, and
// Check before trusting the geometry.
package ext2
