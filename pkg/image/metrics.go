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
	"errors"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/ext2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonIO         = "io"
	reasonShort      = "short"
	reasonMisaligned = "misaligned"
	reasonByteOrder  = "byte_order"
	reasonMagic      = "magic"
	reasonOther      = "other"
)

var (
	imagesOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: consts.AppName,
		Name:      "images_opened_total",
		Help:      "Total number of images whose superblock was mapped",
	})

	openFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: consts.AppName,
		Name:      "validation_failures_total",
		Help:      "Total number of images rejected while opening, by reason",
	}, []string{"reason"})
)

// Collectors returns the loader counters for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{imagesOpened, openFailures}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ext2.ErrShortBuffer):
		return reasonShort
	case errors.Is(err, ext2.ErrMisaligned):
		return reasonMisaligned
	case errors.Is(err, ext2.ErrByteOrder):
		return reasonByteOrder
	case errors.Is(err, ext2.ErrBadMagic):
		return reasonMagic
	}
	return reasonOther
}
