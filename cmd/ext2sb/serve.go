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

package main

import (
	"strings"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:           "serve IMAGE...",
	Short:         "Export superblock statistics of images to Prometheus",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MinimumNArgs(1),
	Example: strings.ReplaceAll(
		`1. Export statistics of two images on the default address
   $ {APP_NAME} serve disk1.img disk2.img

2. Export statistics on a custom address
   $ {APP_NAME} serve disk.img --address=127.0.0.1:9100`,
		`{APP_NAME}`,
		consts.AppName,
	),
	RunE: func(c *cobra.Command, args []string) error {
		address, err := c.Flags().GetString("address")
		if err != nil {
			return err
		}
		paths, err := imagePaths(args)
		if err != nil {
			return err
		}
		return metrics.ServeMetrics(c.Context(), address, paths, imageOptions())
	},
}

func init() {
	serveCmd.Flags().String("address", consts.MetricsAddress, "Address to serve /metrics on")
}
