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
	"context"
	"encoding/hex"
	"time"

	"github.com/minio/ext2sb/pkg/ext2"
	simd "github.com/minio/sha256-simd"
	"go.uber.org/multierr"
)

// Info summarizes the superblock of an image.
type Info struct {
	Path          string    `json:"path"`
	UUID          string    `json:"uuid"`
	Label         string    `json:"label,omitempty"`
	LastMounted   string    `json:"lastMounted,omitempty"`
	BlockSize     uint64    `json:"blockSize"`
	Blocks        uint32    `json:"blocks"`
	FreeBlocks    uint32    `json:"freeBlocks"`
	Inodes        uint32    `json:"inodes"`
	FreeInodes    uint32    `json:"freeInodes"`
	Groups        uint32    `json:"groups"`
	TotalCapacity uint64    `json:"totalCapacity"`
	FreeCapacity  uint64    `json:"freeCapacity"`
	State         string    `json:"state"`
	Errors        string    `json:"errors"`
	Revision      string    `json:"revision"`
	CreatorOS     string    `json:"creatorOS"`
	MountCount    uint16    `json:"mountCount"`
	MaxMountCount int16     `json:"maxMountCount"`
	WriteTime     time.Time `json:"writeTime,omitempty"`
	Compat        []string  `json:"compat,omitempty"`
	Incompat      []string  `json:"incompat,omitempty"`
	ROCompat      []string  `json:"roCompat,omitempty"`
	Fingerprint   string    `json:"fingerprint"`
	Problems      []string  `json:"problems,omitempty"`
}

// Valid reports whether Check found no problems.
func (info *Info) Valid() bool {
	return len(info.Problems) == 0
}

// NewInfo summarizes v.
func NewInfo(path string, v ext2.View) *Info {
	sum := simd.Sum256(v.Bytes())
	info := &Info{
		Path:          path,
		UUID:          v.UUID().String(),
		Label:         v.VolumeName(),
		LastMounted:   v.LastMounted(),
		BlockSize:     v.BlockSize(),
		Blocks:        v.BlocksCount(),
		FreeBlocks:    v.FreeBlocksCount(),
		Inodes:        v.InodesCount(),
		FreeInodes:    v.FreeInodesCount(),
		Groups:        v.GroupCount(),
		State:         v.State().String(),
		Errors:        v.Errors().String(),
		Revision:      revision(v),
		CreatorOS:     v.CreatorOS().String(),
		MountCount:    v.MountCount(),
		MaxMountCount: v.MaxMountCount(),
		WriteTime:     v.WriteTime(),
		Compat:        v.FeatureCompat().Names(),
		Incompat:      v.FeatureIncompat().Names(),
		ROCompat:      v.FeatureROCompat().Names(),
		Fingerprint:   hex.EncodeToString(sum[:]),
	}
	for _, err := range multierr.Errors(v.Check()) {
		info.Problems = append(info.Problems, err.Error())
	}
	if info.Valid() {
		info.TotalCapacity = v.TotalCapacity()
		info.FreeCapacity = v.FreeCapacity()
	}
	return info
}

func revision(v ext2.View) string {
	switch v.RevLevel() {
	case ext2.GoodOldRev:
		return "0 (original)"
	case ext2.DynamicRev:
		return "1 (dynamic)"
	}
	return "unknown"
}

// Probe opens the image read-only, summarizes its superblock and closes it.
func Probe(ctx context.Context, path string, opts Options) (info *Info, err error) {
	opts.Writable = false
	img, err := Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, img.Close())
	}()

	err = img.View(func(v ext2.View) error {
		info = NewInfo(path, v)
		return nil
	})
	return info, err
}
