// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package syntax

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count characters, not bytes.
type Position struct {
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Lines maps byte offsets of a source file to positions.
type Lines struct {
	src    []byte
	starts []uint32
}

func NewLines(src []byte) *Lines {
	starts := []uint32{0}
	for ii, c := range src {
		if c == '\n' {
			starts = append(starts, uint32(ii+1))
		}
	}
	return &Lines{
		src:    src,
		starts: starts,
	}
}

func (l *Lines) Position(offset uint32) Position {
	if int(offset) > len(l.src) {
		offset = uint32(len(l.src))
	}
	line := sort.Search(len(l.starts), func(ii int) bool {
		return l.starts[ii] > offset
	}) - 1
	lineStart := l.starts[line]
	column := utf8.RuneCount(l.src[lineStart:offset]) + 1
	return Position{
		Line:   uint32(line + 1),
		Column: uint32(column),
	}
}
