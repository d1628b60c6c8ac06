//go:build !linux

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
)

type mapping struct {
	superblock []byte
	file       *os.File
	offset     int64
}

// mapSuperblock reads the superblock at offset into an aligned buffer. A
// writable image keeps its file open so that changes are written back.
func mapSuperblock(path string, offset int64, writable bool) (*mapping, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}

	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}

	buf := ext2.Aligned(ext2.Size)
	n, err := file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, err
	}
	if n < ext2.Size {
		file.Close()
		return nil, fmt.Errorf("%w; image %v is %v bytes", ext2.ErrShortBuffer, path, offset+int64(n))
	}

	m := &mapping{superblock: buf, offset: offset}
	if writable {
		m.file = file
	} else {
		file.Close()
	}
	return m, nil
}

func (m *mapping) unmap() error {
	if m.file == nil {
		return nil
	}
	defer m.file.Close()
	if _, err := m.file.WriteAt(m.superblock, m.offset); err != nil {
		return err
	}
	return m.file.Sync()
}
