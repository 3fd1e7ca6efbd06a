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

// Package steamtext renders a resolved schema as deterministic text.
package steamtext

import (
	"fmt"
	"io"
	"strings"

	"go.steamlang.org/steamlang/compiler"
)

func Encode(schema *compiler.Schema) string {
	var buf strings.Builder
	EncodeTo(schema, &buf)
	return buf.String()
}

func EncodeTo(schema *compiler.Schema, w io.Writer) error {
	e := encoder{w: w}
	first := true
	for decl := range schema.Decls() {
		if e.err != nil {
			break
		}
		if !first {
			e.line("")
		}
		first = false
		switch decl := decl.(type) {
		case *compiler.Enum:
			e.visitEnum(decl)
		case *compiler.Message:
			e.visitMessage(decl)
		}
	}
	if len(schema.Dispatch) > 0 {
		if !first {
			e.line("")
		}
		e.line("dispatch {")
		e.indent += 1
		for _, entry := range schema.Dispatch {
			e.linef("%d = %s", entry.Code, entry.Message)
		}
		e.indent -= 1
		e.line("}")
	}
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if s != "" {
		if indent := strings.Repeat("\t", e.indent); indent != "" {
			if _, err := io.WriteString(e.w, indent); err != nil {
				e.err = err
				return
			}
		}
		if _, err := io.WriteString(e.w, s); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) visitEnum(enum *compiler.Enum) {
	keyword := "enum"
	if enum.IsFlags {
		keyword = "flags"
	}
	e.linef("%s %s : %s {", keyword, enum.Name, enum.Base)
	e.indent += 1
	for _, member := range enum.Members {
		if enum.IsFlags {
			e.linef("%s = 0x%0*X", member.Name, enum.Base.Size()*2, member.Value)
		} else {
			e.linef("%s = %s", member.Name, enum.Base.FormatValue(member.Value))
		}
	}
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitMessage(msg *compiler.Message) {
	switch {
	case msg.Code == nil:
		e.linef("message %s {", msg.Name)
	case msg.Code.Enum != "":
		e.linef("message %s <%s = %d> {", msg.Name, msg.Code, msg.Code.Value)
	default:
		e.linef("message %s <%d> {", msg.Name, msg.Code.Value)
	}
	e.indent += 1
	if msg.Open {
		e.linef("size = %d open", msg.Size)
	} else {
		e.linef("size = %d", msg.Size)
	}
	for _, field := range msg.Fields {
		e.line(fmtField(field))
	}
	e.indent -= 1
	e.line("}")
}

func fmtField(field *compiler.Field) string {
	var buf strings.Builder
	if field.Boxed {
		buf.WriteString("boxed ")
	}
	buf.WriteString(field.Type.String())
	switch {
	case field.ArrayLen > 0:
		fmt.Fprintf(&buf, "[%d]", field.ArrayLen)
	case field.IsArray():
		buf.WriteString("[]")
	}
	fmt.Fprintf(&buf, " %s @%d +%d", field.Name, field.Offset, field.Size)
	if field.Open {
		buf.WriteString(" open")
	}
	return buf.String()
}
