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

// Package ellipsis expands range patterns such as "disk{1...4}.img" or
// "/dev/sd{b...d}1" into the list of image paths they name.
package ellipsis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxPaths is the largest number of paths a single pattern may expand to.
const MaxPaths = 65536

var letters = regexp.MustCompile("^[a-z]+$")

// letterValue converts a bijective base-26 label ("a"=1, "z"=26, "aa"=27).
func letterValue(label string) (value uint64) {
	for i := 0; i < len(label); i++ {
		value = value*26 + uint64(label[i]-'a'+1)
	}
	return value
}

func letterLabel(value uint64) string {
	var label []byte
	for value > 0 {
		value--
		label = append([]byte{byte('a' + value%26)}, label...)
		value /= 26
	}
	return string(label)
}

// span is one {first...last} range and its position in the pattern.
type span struct {
	first, last uint64
	letters     bool
	begin, end  int
}

func (s span) label(value uint64) string {
	if s.letters {
		return letterLabel(value)
	}
	return strconv.FormatUint(value, 10)
}

func parseBound(value string) (uint64, bool, error) {
	if n, err := strconv.ParseUint(value, 10, 64); err == nil {
		return n, false, nil
	}
	if letters.MatchString(value) {
		return letterValue(value), true, nil
	}
	return 0, false, fmt.Errorf("invalid range bound %q", value)
}

func parseSpan(pattern string, begin, end int) (span, error) {
	body := pattern[begin+1 : end-1]
	bounds := strings.Split(body, "...")
	if len(bounds) != 2 {
		return span{}, fmt.Errorf("%v: invalid range %v at %v", pattern, pattern[begin:end], begin)
	}

	first, firstLetters, err := parseBound(bounds[0])
	if err != nil {
		return span{}, fmt.Errorf("%v: %w at %v", pattern, err, begin)
	}
	last, lastLetters, err := parseBound(bounds[1])
	if err != nil {
		return span{}, fmt.Errorf("%v: %w at %v", pattern, err, begin)
	}
	if firstLetters != lastLetters {
		return span{}, fmt.Errorf("%v: invalid range %v at %v; bounds must be of same kind", pattern, pattern[begin:end], begin)
	}
	if first > last {
		first, last = last, first
	}

	return span{first: first, last: last, letters: firstLetters, begin: begin, end: end}, nil
}

func findSpans(pattern string) ([]span, error) {
	var spans []span
	open := -1
	for i, c := range pattern {
		switch c {
		case '{':
			if open >= 0 {
				return nil, fmt.Errorf("%v: nested range at %v", pattern, i+1)
			}
			open = i
		case '}':
			if open < 0 {
				return nil, fmt.Errorf("%v: unbalanced range at %v", pattern, i+1)
			}
			s, err := parseSpan(pattern, open, i+1)
			if err != nil {
				return nil, err
			}
			spans = append(spans, s)
			open = -1
		}
	}
	if open >= 0 {
		return nil, fmt.Errorf("%v: unterminated range at %v", pattern, open+1)
	}
	return spans, nil
}

// Expand returns every path named by pattern, leftmost range varying slowest.
// A pattern without ranges expands to itself.
func Expand(pattern string) ([]string, error) {
	spans, err := findSpans(pattern)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return []string{pattern}, nil
	}

	count := uint64(1)
	for _, s := range spans {
		if s.last-s.first >= MaxPaths {
			return nil, fmt.Errorf("%v: range %v expands to more than %v paths", pattern, pattern[s.begin:s.end], MaxPaths)
		}
		if count *= s.last - s.first + 1; count > MaxPaths {
			return nil, fmt.Errorf("%v: expands to more than %v paths", pattern, MaxPaths)
		}
	}

	counters := make([]uint64, len(spans))
	for i, s := range spans {
		counters[i] = s.first
	}

	var paths []string
	for {
		var builder strings.Builder
		prev := 0
		for i, s := range spans {
			builder.WriteString(pattern[prev:s.begin])
			builder.WriteString(s.label(counters[i]))
			prev = s.end
		}
		builder.WriteString(pattern[prev:])
		paths = append(paths, builder.String())

		i := len(spans) - 1
		for ; i >= 0; i-- {
			if counters[i] < spans[i].last {
				counters[i]++
				break
			}
			counters[i] = spans[i].first
		}
		if i < 0 {
			return paths, nil
		}
	}
}

// ExpandAll expands each pattern in order and drops duplicate paths.
func ExpandAll(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	for _, pattern := range patterns {
		expanded, err := Expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range expanded {
			if _, found := seen[path]; found {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	return paths, nil
}
