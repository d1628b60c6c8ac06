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

package metrics

import (
	"context"
	"time"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"
)

// probeTimeout bounds the probe of each image on a scrape.
const probeTimeout = 5 * time.Second

type metricsCollector struct {
	paths  []string
	opts   image.Options
	desc   *prometheus.Desc
	probe  func(ctx context.Context, path string, opts image.Options) (*image.Info, error)
	gauges map[string]*prometheus.Desc
}

func newMetricsCollector(paths []string, opts image.Options) *metricsCollector {
	newDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(consts.AppName, "superblock", name),
			help,
			[]string{"image"}, nil,
		)
	}
	return &metricsCollector{
		paths: paths,
		opts:  opts,
		desc:  prometheus.NewDesc(consts.AppName+"_superblock", "Superblock statistics exposed by "+consts.AppPrettyName, nil, nil),
		probe: image.Probe,
		gauges: map[string]*prometheus.Desc{
			"valid":        newDesc("valid", "Superblock consistency (1 for consistent, 0 otherwise)"),
			"blocks_total": newDesc("blocks_total", "Total number of blocks"),
			"blocks_free":  newDesc("blocks_free", "Number of free blocks"),
			"inodes_total": newDesc("inodes_total", "Total number of inodes"),
			"inodes_free":  newDesc("inodes_free", "Number of free inodes"),
			"mount_count":  newDesc("mount_count", "Mounts since the last filesystem check"),
		},
	}
}

// Describe sends the super set of all possible descriptors of metrics
func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
	for _, desc := range c.gauges {
		ch <- desc
	}
}

func (c *metricsCollector) publishImageStats(ctx context.Context, path string, ch chan<- prometheus.Metric) {
	ctx, cancelFunc := context.WithTimeout(ctx, probeTimeout)
	defer cancelFunc()

	info, err := c.probe(ctx, path, c.opts)
	if err != nil {
		klog.ErrorS(err, "unable to probe image", "image", path)
		ch <- prometheus.MustNewConstMetric(c.gauges["valid"], prometheus.GaugeValue, 0, path)
		return
	}

	valid := 0.0
	if info.Valid() {
		valid = 1.0
	} else {
		klog.V(3).InfoS("inconsistent superblock", "image", path, "problems", info.Problems)
	}

	ch <- prometheus.MustNewConstMetric(c.gauges["valid"], prometheus.GaugeValue, valid, path)
	ch <- prometheus.MustNewConstMetric(c.gauges["blocks_total"], prometheus.GaugeValue, float64(info.Blocks), path)
	ch <- prometheus.MustNewConstMetric(c.gauges["blocks_free"], prometheus.GaugeValue, float64(info.FreeBlocks), path)
	ch <- prometheus.MustNewConstMetric(c.gauges["inodes_total"], prometheus.GaugeValue, float64(info.Inodes), path)
	ch <- prometheus.MustNewConstMetric(c.gauges["inodes_free"], prometheus.GaugeValue, float64(info.FreeInodes), path)
	ch <- prometheus.MustNewConstMetric(c.gauges["mount_count"], prometheus.GaugeValue, float64(info.MountCount), path)
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, path := range c.paths {
		c.publishImageStats(context.Background(), path, ch)
	}
}
