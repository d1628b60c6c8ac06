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
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/minio/ext2sb/pkg/image"
	"github.com/minio/ext2sb/pkg/utils"
)

const dot = "•"

func newTableWriter(writer io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.AppendHeader(header)

	style := table.StyleColoredDark
	style.Color.IndexColumn = text.Colors{text.FgHiBlue, text.BgHiBlack}
	style.Color.Header = text.Colors{text.FgHiBlue, text.BgHiBlack}
	t.SetStyle(style)
	return t
}

func printObject(writer io.Writer, format string, obj interface{}) error {
	data, err := utils.Marshal(utils.Format(format), obj)
	if err != nil {
		return err
	}
	_, err = writer.Write(data)
	return err
}

func printInfos(writer io.Writer, format string, infos []*image.Info) error {
	switch format {
	case "json", "yaml":
		return printObject(writer, format, infos)
	}

	header := table.Row{"IMAGE", "UUID", "LABEL", "SIZE", "FREE", "BLOCK SIZE", "STATE", "VALID"}
	wide := format == "wide"
	if wide {
		header = append(header, "FEATURES", "FINGERPRINT")
	}
	t := newTableWriter(writer, header)

	for _, info := range infos {
		row := table.Row{
			info.Path,
			info.UUID,
			printableString(info.Label),
			printableBytes(info.TotalCapacity),
			printableBytes(info.FreeCapacity),
			humanize.IBytes(info.BlockSize),
			info.State,
			validString(info.Valid()),
		}
		if wide {
			features := append(append(append([]string{}, info.Compat...), info.Incompat...), info.ROCompat...)
			row = append(row, printableString(strings.Join(features, ",")), shortFingerprint(info.Fingerprint))
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

// shortFingerprint returns the first 16 hex digits of a fingerprint.
func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 16 {
		fingerprint = fingerprint[:16]
	}
	return printableString(fingerprint)
}

func printableString(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func printableBytes(value uint64) string {
	if value == 0 {
		return "-"
	}
	return humanize.IBytes(value)
}

func validString(valid bool) string {
	if valid {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}
