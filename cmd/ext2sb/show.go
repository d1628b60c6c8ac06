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
	"context"
	"os"
	"strings"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var showCmd = &cobra.Command{
	Use:           "show IMAGE...",
	Aliases:       []string{"info"},
	Short:         "Show the superblock of images",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MinimumNArgs(1),
	Example: strings.ReplaceAll(
		`1. Show the superblock of an image
   $ {APP_NAME} show disk.img

2. Show the superblock of a partition with all information
   $ {APP_NAME} show /dev/sdb1 --output wide

3. Show the superblocks of disk1.img to disk4.img
   $ {APP_NAME} show disk{1...4}.img

4. Show the superblock of an image as YAML
   $ {APP_NAME} show disk.img -o yaml`,
		`{APP_NAME}`,
		consts.AppName,
	),
	RunE: func(c *cobra.Command, args []string) error {
		format, err := outputFormat(c)
		if err != nil {
			return err
		}
		paths, err := imagePaths(args)
		if err != nil {
			return err
		}
		return showMain(c.Context(), paths, format)
	},
}

func init() {
	addOutputFlag(showCmd)
}

func showMain(ctx context.Context, paths []string, format string) error {
	opts := imageOptions()
	infos := make([]*image.Info, 0, len(paths))
	for _, path := range paths {
		info, err := image.Probe(ctx, path, opts)
		if err != nil {
			return err
		}
		klog.V(5).InfoS("probed image", "path", path, "uuid", info.UUID)
		infos = append(infos, info)
	}
	return printInfos(os.Stdout, format, infos)
}
