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
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minio/ext2sb/pkg/image"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func createFakeMetricsCollector() *metricsCollector {
	c := newMetricsCollector([]string{"/images/a.img", "/images/b.img", "/images/c.img"}, image.Options{})
	c.probe = func(ctx context.Context, path string, opts image.Options) (*image.Info, error) {
		switch path {
		case "/images/a.img":
			return &image.Info{Path: path, Blocks: 4096, FreeBlocks: 3900, Inodes: 1024, FreeInodes: 1013, MountCount: 2}, nil
		case "/images/b.img":
			return &image.Info{Path: path, Blocks: 8192, FreeBlocks: 9000, Inodes: 2048, FreeInodes: 2037, Problems: []string{"free blocks exceed blocks"}}, nil
		}
		return nil, errors.New("no such image")
	}
	return c
}

func TestCollector(t *testing.T) {
	c := createFakeMetricsCollector()

	expected := `
# HELP ext2sb_superblock_valid Superblock consistency (1 for consistent, 0 otherwise)
# TYPE ext2sb_superblock_valid gauge
ext2sb_superblock_valid{image="/images/a.img"} 1
ext2sb_superblock_valid{image="/images/b.img"} 0
ext2sb_superblock_valid{image="/images/c.img"} 0
# HELP ext2sb_superblock_blocks_free Number of free blocks
# TYPE ext2sb_superblock_blocks_free gauge
ext2sb_superblock_blocks_free{image="/images/a.img"} 3900
ext2sb_superblock_blocks_free{image="/images/b.img"} 9000
# HELP ext2sb_superblock_mount_count Mounts since the last filesystem check
# TYPE ext2sb_superblock_mount_count gauge
ext2sb_superblock_mount_count{image="/images/a.img"} 2
ext2sb_superblock_mount_count{image="/images/b.img"} 0
`
	err := testutil.CollectAndCompare(
		c,
		strings.NewReader(expected),
		"ext2sb_superblock_valid",
		"ext2sb_superblock_blocks_free",
		"ext2sb_superblock_mount_count",
	)
	if err != nil {
		t.Fatal(err)
	}

	// 6 gauges for each of the two probed images, 1 for the failed one.
	if count := testutil.CollectAndCount(c); count != 13 {
		t.Fatalf("metrics count: expected: 13, got: %v", count)
	}
}

func TestHandler(t *testing.T) {
	server := httptest.NewServer(Handler(nil, image.Options{}))
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ext2sb_images_opened_total", "promhttp_metric_handler_requests_total"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("metric %v not found in response", name)
		}
	}
}
