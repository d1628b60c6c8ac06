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
	"bytes"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// View is a read-only, non-copying view of a superblock. It is only valid
// while the bytes it was built from are alive and not mutably viewed.
type View struct {
	sb *Superblock
}

// IsZero reports whether v was not built by a view constructor.
func (v View) IsZero() bool { return v.sb == nil }

// Bytes returns the Size bytes backing v. The slice must not be modified.
func (v View) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v.sb)), Size)
}

// Snapshot copies the record out of the backing memory.
func (v View) Snapshot() Superblock { return *v.sb }

// Check runs the consistency checks of Superblock.Check.
func (v View) Check() error { return v.sb.Check() }

func (v View) Magic() uint16                    { return v.sb.Magic }
func (v View) InodesCount() uint32              { return v.sb.InodesCount }
func (v View) BlocksCount() uint32              { return v.sb.BlocksCount }
func (v View) ReservedBlocksCount() uint32      { return v.sb.ReservedBlocksCount }
func (v View) FreeBlocksCount() uint32          { return v.sb.FreeBlocksCount }
func (v View) FreeInodesCount() uint32          { return v.sb.FreeInodesCount }
func (v View) FirstDataBlock() uint32           { return v.sb.FirstDataBlock }
func (v View) LogBlockSize() uint32             { return v.sb.LogBlockSize }
func (v View) BlockSize() uint64                { return v.sb.BlockSize() }
func (v View) BlocksPerGroup() uint32           { return v.sb.BlocksPerGroup }
func (v View) InodesPerGroup() uint32           { return v.sb.InodesPerGroup }
func (v View) GroupCount() uint32               { return v.sb.GroupCount() }
func (v View) MountCount() uint16               { return v.sb.MountCount }
func (v View) MaxMountCount() int16             { return v.sb.MaxMountCount }
func (v View) State() State                     { return v.sb.State }
func (v View) Errors() ErrorPolicy              { return v.sb.Errors }
func (v View) CreatorOS() CreatorOS             { return v.sb.CreatorOS }
func (v View) RevLevel() uint32                 { return v.sb.RevLevel }
func (v View) MinorRevLevel() uint16            { return v.sb.MinorRevLevel }
func (v View) FirstInode() uint32               { return v.sb.FirstNonReservedInode() }
func (v View) InodeSize() uint16                { return v.sb.InodeSizeBytes() }
func (v View) FeatureCompat() CompatFeature     { return v.sb.FeatureCompat }
func (v View) FeatureIncompat() IncompatFeature { return v.sb.FeatureIncompat }
func (v View) FeatureROCompat() ROCompatFeature { return v.sb.FeatureROCompat }

// MountTime returns the last mount time.
func (v View) MountTime() time.Time { return unixTime(v.sb.MountTime) }

// WriteTime returns the last write time.
func (v View) WriteTime() time.Time { return unixTime(v.sb.WriteTime) }

// LastCheck returns the time of the last filesystem check.
func (v View) LastCheck() time.Time { return unixTime(v.sb.LastCheck) }

// UUID returns the filesystem UUID.
func (v View) UUID() uuid.UUID { return uuid.UUID(v.sb.UUID) }

// VolumeName returns the volume label without trailing NULs.
func (v View) VolumeName() string { return cString(v.sb.VolumeName[:]) }

// LastMounted returns the directory where the filesystem was last mounted.
func (v View) LastMounted() string { return cString(v.sb.LastMounted[:]) }

// TotalCapacity returns the filesystem size in bytes.
func (v View) TotalCapacity() uint64 {
	return uint64(v.sb.BlocksCount) * v.sb.BlockSize()
}

// FreeCapacity returns the free space in bytes, including reserved blocks.
func (v View) FreeCapacity() uint64 {
	return uint64(v.sb.FreeBlocksCount) * v.sb.BlockSize()
}

func unixTime(sec uint32) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
