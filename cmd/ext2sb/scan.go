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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mb0/glob"
	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/ext2"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var scanCmd = &cobra.Command{
	Use:           "scan DIR",
	Short:         "Find ext2 images in a directory",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ExactArgs(1),
	Example: strings.ReplaceAll(
		`1. Find all ext2 images under /var/lib/images
   $ {APP_NAME} scan /var/lib/images

2. Find ext2 images named *.img
   $ {APP_NAME} scan /var/lib/images --pattern='*.img'`,
		`{APP_NAME}`,
		consts.AppName,
	),
	RunE: func(c *cobra.Command, args []string) error {
		format, err := outputFormat(c)
		if err != nil {
			return err
		}
		pattern, err := c.Flags().GetString("pattern")
		if err != nil {
			return err
		}
		infos, err := scanDir(c.Context(), args[0], pattern, imageOptions())
		if err != nil {
			return err
		}
		return printInfos(os.Stdout, format, infos)
	},
}

func init() {
	addOutputFlag(scanCmd)
	scanCmd.Flags().String("pattern", consts.ScanPattern, "Glob pattern of file names to consider")
}

// scanDir returns the images under dir whose name matches pattern and which
// carry an ext2 superblock. Files without one are skipped silently.
func scanDir(ctx context.Context, dir, pattern string, opts image.Options) ([]*image.Info, error) {
	if _, err := glob.Match(pattern, ""); err != nil {
		return nil, err
	}

	infos := []*image.Info{}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if ok, _ := glob.Match(pattern, entry.Name()); !ok {
			return nil
		}

		info, err := image.Probe(ctx, path, opts)
		switch {
		case err == nil:
			infos = append(infos, info)
		case errors.Is(err, ext2.ErrBadMagic), errors.Is(err, ext2.ErrShortBuffer):
			klog.V(5).InfoS("skipping file", "path", path, "reason", err)
		default:
			klog.ErrorS(err, "unable to probe file", "path", path)
		}
		return nil
	})
	return infos, err
}
