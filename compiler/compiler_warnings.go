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

package compiler

import (
	"fmt"

	"go.steamlang.org/steamlang/syntax"
)

type Warning struct {
	code    uint32
	message string
	span    syntax.Span

	file string
	pos  syntax.Position
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Span() syntax.Span {
	return w.span
}

func (w *Warning) File() string {
	return w.file
}

func (w *Warning) Position() syntax.Position {
	return w.pos
}

// Diagnostic formats the warning as "file:line:col: W#### message".
func (w *Warning) Diagnostic() string {
	return fmt.Sprintf("%s:%s: W%d %s", w.file, w.pos, w.code, w.message)
}

func (w *Warning) locate(file *syntax.File) *Warning {
	w.file = file.Path()
	w.pos = file.Position(w.span.Start())
	return w
}

func warnDeclShadowsPrimitive(name string, span syntax.Span) *Warning {
	return &Warning{
		code: 4000,
		message: fmt.Sprintf(
			"Declaration '%s' shadows a built-in type and cannot be"+
				" referenced by field types",
			name,
		),
		span: span,
	}
}

func warnEmptyMemberSet(name string, span syntax.Span) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("'%s' declares no members", name),
		span:    span,
	}
}
