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
	"fmt"
	"strings"

	"github.com/minio/ext2sb/pkg/consts"
	"github.com/minio/ext2sb/pkg/ellipsis"
	"github.com/minio/ext2sb/pkg/ext2"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/minio/ext2sb/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outputFormatValues = []string{"", "wide", "json", "yaml"}

func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", consts.ConfigFile, "Path to the configuration file")
	cmd.PersistentFlags().Bool("quiet", false, "Suppress printing error messages")
	cmd.PersistentFlags().Int64("offset", ext2.Offset, "Byte offset of the superblock in the image")
	cmd.PersistentFlags().Duration("timeout", image.DefaultTimeout, "Maximum time to open an image")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output format. One of: "+strings.Join(outputFormatValues[1:], "|"))
}

func quietFlag() bool {
	return viper.GetBool("quiet")
}

// outputFormat returns the --output flag, falling back to the configured one.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := viper.GetString("output")
	if flag := cmd.Flags().Lookup("output"); flag != nil && flag.Changed {
		format = flag.Value.String()
	}
	format = strings.ToLower(format)
	for _, value := range outputFormatValues {
		if format == value {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format %v; one of %v is expected", format, strings.Join(outputFormatValues[1:], "|"))
}

func imageOptions() image.Options {
	return image.Options{
		Offset:  viper.GetInt64("offset"),
		Timeout: viper.GetDuration("timeout"),
	}
}

// imagePaths expands range patterns like disk{1...4}.img in args.
func imagePaths(args []string) ([]string, error) {
	paths, err := ellipsis.ExpandAll(args)
	if err != nil {
		return nil, err
	}
	for i := range paths {
		if paths[i], err = utils.ExpandPath(paths[i]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
