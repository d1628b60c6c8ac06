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
	"errors"
	"fmt"
	"time"

	"github.com/minio/ext2sb/pkg/ext2"
	"k8s.io/klog/v2"
)

// DefaultTimeout bounds Open when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

var (
	// ErrReadOnly denotes a mutable borrow of an image opened read-only.
	ErrReadOnly = errors.New("image is opened read-only")

	// ErrCanceled denotes an Open which did not finish in time.
	ErrCanceled = errors.New("image open canceled")
)

// Options control how an image is opened.
type Options struct {
	// Offset is the byte offset of the superblock; ext2.Offset if zero.
	Offset int64
	// Writable maps the image read-write so that BorrowMut is allowed.
	Writable bool
	// Timeout bounds the open; DefaultTimeout if zero.
	Timeout time.Duration
}

func (opts Options) offset() int64 {
	if opts.Offset == 0 {
		return ext2.Offset
	}
	return opts.Offset
}

func (opts Options) timeout() time.Duration {
	if opts.Timeout == 0 {
		return DefaultTimeout
	}
	return opts.Timeout
}

// Image is an image file whose superblock is mapped into memory.
type Image struct {
	path     string
	writable bool
	region   *ext2.Region
	mapping  *mapping
}

// Open maps the superblock of the image at path and validates it with
// ext2.NewRegion. The returned image must be closed.
func Open(ctx context.Context, path string, opts Options) (*Image, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, opts.timeout())
	defer cancelFunc()

	type result struct {
		img *Image
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		img, err := open(path, opts)
		resultCh <- result{img, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-resultCh; res.img != nil {
				res.img.Close()
			}
		}()
		return nil, fmt.Errorf("%w; %v", ErrCanceled, ctx.Err())
	case res := <-resultCh:
		return res.img, res.err
	}
}

func open(path string, opts Options) (*Image, error) {
	offset := opts.offset()
	if offset < 0 {
		return nil, fmt.Errorf("invalid superblock offset %v", offset)
	}

	m, err := mapSuperblock(path, offset, opts.Writable)
	if err != nil {
		reason := failureReason(err)
		if reason == reasonOther {
			reason = reasonIO
		}
		openFailures.WithLabelValues(reason).Inc()
		return nil, err
	}

	region, err := ext2.NewRegion(m.superblock)
	if err != nil {
		openFailures.WithLabelValues(failureReason(err)).Inc()
		if uerr := m.unmap(); uerr != nil {
			klog.ErrorS(uerr, "unable to unmap image", "path", path)
		}
		return nil, fmt.Errorf("unable to read superblock of %v; %w", path, err)
	}

	imagesOpened.Inc()
	klog.V(3).InfoS("opened image", "path", path, "offset", offset, "writable", opts.Writable)
	return &Image{
		path:     path,
		writable: opts.Writable,
		region:   region,
		mapping:  m,
	}, nil
}

// Path returns the path the image was opened from.
func (img *Image) Path() string {
	return img.path
}

// Borrow returns a shared borrow of the superblock.
func (img *Image) Borrow() (*ext2.Ref, error) {
	return img.region.Borrow()
}

// BorrowMut returns an exclusive borrow of the superblock. Changes made
// through it reach the image file on Close.
func (img *Image) BorrowMut() (*ext2.MutRef, error) {
	if !img.writable {
		return nil, ErrReadOnly
	}
	return img.region.BorrowMut()
}

// View calls fn with a read-only view which is released when fn returns.
func (img *Image) View(fn func(v ext2.View) error) error {
	ref, err := img.Borrow()
	if err != nil {
		return err
	}
	defer ref.Release()

	v, err := ref.View()
	if err != nil {
		return err
	}
	return fn(v)
}

// Close releases the mapping. It fails with ext2.ErrBorrowed while borrows
// are live, leaving the image usable.
func (img *Image) Close() error {
	if err := img.region.Close(); err != nil {
		return err
	}
	if img.mapping == nil {
		return nil
	}
	err := img.mapping.unmap()
	img.mapping = nil
	return err
}
