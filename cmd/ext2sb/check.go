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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("superblock check failed")

var checkCmd = &cobra.Command{
	Use:           "check IMAGE...",
	Short:         "Check the superblock of images for consistency",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.MinimumNArgs(1),
	Example: strings.ReplaceAll(
		`1. Check an image
   $ {APP_NAME} check disk.img

2. Check partitions sdb1 to sdd1
   $ {APP_NAME} check /dev/sd{b...d}1

3. Check the backup superblock of the second block group of a 1 KiB block image
   $ {APP_NAME} check disk.img --offset=8389632`,
		`{APP_NAME}`,
		consts.AppName,
	),
	RunE: func(c *cobra.Command, args []string) error {
		paths, err := imagePaths(args)
		if err != nil {
			return err
		}
		return checkMain(c.Context(), os.Stdout, paths)
	},
}

func checkMain(ctx context.Context, writer io.Writer, paths []string) error {
	opts := imageOptions()
	failed := 0
	for _, path := range paths {
		info, err := image.Probe(ctx, path, opts)
		if err != nil {
			failed++
			fmt.Fprintf(writer, "%v %v\n  %v %v\n", color.HiRedString("FAILED"), path, dot, err)
			continue
		}
		if !printCheckResult(writer, info) {
			failed++
		}
	}

	if failed != 0 {
		return fmt.Errorf("%w; %v of %v images", errCheckFailed, failed, len(paths))
	}
	return nil
}

func printCheckResult(writer io.Writer, info *image.Info) bool {
	if info.Valid() {
		fmt.Fprintf(writer, "%v %v\n", color.HiGreenString("OK"), info.Path)
		return true
	}
	fmt.Fprintf(writer, "%v %v\n", color.HiRedString("FAILED"), info.Path)
	for _, problem := range info.Problems {
		fmt.Fprintf(writer, "  %v %v\n", dot, problem)
	}
	return false
}
