//go:build linux

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

package image

import (
	"fmt"
	"io"
	"os"

	"github.com/minio/ext2sb/pkg/ext2"
	"golang.org/x/sys/unix"
)

type mapping struct {
	data       []byte
	superblock []byte
	writable   bool
}

// mapSuperblock maps the pages holding the superblock at offset. Mappings
// start on a page boundary, so the superblock is aligned whenever offset is.
func mapSuperblock(path string, offset int64, writable bool) (*mapping, error) {
	flag, prot := os.O_RDONLY, unix.PROT_READ
	if writable {
		flag, prot = os.O_RDWR, unix.PROT_READ|unix.PROT_WRITE
	}

	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Seek also sizes block devices, where Stat reports zero.
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < offset+ext2.Size {
		return nil, fmt.Errorf("%w; image %v is %v bytes", ext2.ErrShortBuffer, path, size)
	}

	pageSize := int64(os.Getpagesize())
	base := offset &^ (pageSize - 1)
	data, err := unix.Mmap(int(file.Fd()), base, int(offset-base+ext2.Size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unable to map %v; %w", path, err)
	}

	return &mapping{
		data:       data,
		superblock: data[offset-base:],
		writable:   writable,
	}, nil
}

func (m *mapping) unmap() error {
	if m.writable {
		if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
			unix.Munmap(m.data)
			return err
		}
	}
	return unix.Munmap(m.data)
}
