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

// Package codegen emits Go source for a resolved schema.
//
// The output is a single file containing one type per declaration, the
// methods of [steamlang.Codec] for each type, a sealed Message interface
// implemented by every message with a dispatch code, and a registry of
// those messages. Generation is deterministic: the same schema and options
// always produce the same bytes.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.steamlang.org/steamlang/compiler"
)

const DefaultRuntimeImport = "go.steamlang.org/steamlang"

type Options struct {
	// Package is the name of the generated Go package.
	Package string `cbor:"package"`

	// RuntimeImport is the import path of the steamlang runtime. Defaults
	// to [DefaultRuntimeImport].
	RuntimeImport string `cbor:"runtime_import,omitempty"`
}

// Generate returns gofmt-formatted Go source for schema.
func Generate(schema *compiler.Schema, opts Options) ([]byte, error) {
	if !token.IsIdentifier(opts.Package) || opts.Package == "_" {
		return nil, fmt.Errorf("codegen: invalid package name %q", opts.Package)
	}
	runtimeImport := opts.RuntimeImport
	if runtimeImport == "" {
		runtimeImport = DefaultRuntimeImport
	}

	g := &generator{
		schema: schema,
		pkg:    opts.Package,
		enums:  make(map[string]*compiler.Enum, len(schema.Enums)),
	}
	for _, enum := range schema.Enums {
		g.enums[enum.Name] = enum
	}
	if err := g.checkNames(); err != nil {
		return nil, err
	}

	g.emitHeader(runtimeImport)
	for decl := range schema.Decls() {
		switch decl := decl.(type) {
		case *compiler.Enum:
			if decl.IsFlags {
				g.emitFlags(decl)
			} else {
				g.emitEnum(decl)
			}
		case *compiler.Message:
			g.emitMessage(decl)
		}
	}
	g.emitRegistry()

	out, err := format.Source(g.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format output: %w", err)
	}
	return out, nil
}

type generator struct {
	schema *compiler.Schema
	pkg    string
	enums  map[string]*compiler.Enum
	buf    bytes.Buffer
}

func (g *generator) line(s string) {
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

func (g *generator) linef(format string, a ...any) {
	fmt.Fprintf(&g.buf, format, a...)
	g.buf.WriteByte('\n')
}

func (g *generator) emitHeader(runtimeImport string) {
	needStrconv := len(g.schema.Enums) > 0
	needStrings := false
	for _, enum := range g.schema.Enums {
		if enum.IsFlags {
			needStrings = true
		}
	}

	g.line("// Code generated by steamlang. DO NOT EDIT.")
	g.line("")
	g.linef("package %s", g.pkg)
	g.line("")
	g.line("import (")
	if needStrconv {
		g.line("\t\"strconv\"")
	}
	if needStrings {
		g.line("\t\"strings\"")
	}
	if needStrconv || needStrings {
		g.line("")
	}
	if path.Base(runtimeImport) == "steamlang" {
		g.linef("\t%q", runtimeImport)
	} else {
		g.linef("\tsteamlang %q", runtimeImport)
	}
	g.line(")")
	g.line("")
	g.line("// Message is implemented by every message that has a dispatch code.")
	g.line("type Message interface {")
	g.line("\tsteamlang.Message")
	g.line("\tisMessage()")
	g.line("}")
}

// exportName returns the Go struct field name of a schema field.
func exportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func memberConst(enum *compiler.Enum, member *compiler.Member) string {
	return enum.Name + "_" + member.Name
}

func primitiveMethod(p compiler.Primitive) string {
	switch p {
	case compiler.PrimitiveBool:
		return "Bool"
	case compiler.PrimitiveInt8:
		return "Int8"
	case compiler.PrimitiveUint8:
		return "Uint8"
	case compiler.PrimitiveInt16:
		return "Int16"
	case compiler.PrimitiveUint16:
		return "Uint16"
	case compiler.PrimitiveInt32:
		return "Int32"
	case compiler.PrimitiveUint32:
		return "Uint32"
	case compiler.PrimitiveInt64:
		return "Int64"
	}
	return "Uint64"
}

// unsignedType returns the unsigned Go type with the width of p.
func unsignedType(p compiler.Primitive) string {
	switch p.Size() {
	case 1:
		return "uint8"
	case 2:
		return "uint16"
	case 4:
		return "uint32"
	}
	return "uint64"
}

func (g *generator) fieldType(field *compiler.Field) string {
	var elem string
	switch {
	case field.Boxed:
		return "steamlang.Ref[" + field.Type.Name + "]"
	case field.Type.Kind != compiler.TypePrimitive:
		elem = field.Type.Name
	case field.IsArray() && field.Type.Primitive == compiler.PrimitiveUint8:
		elem = "byte"
	default:
		elem = field.Type.Primitive.String()
	}
	switch {
	case field.ArrayLen > 0:
		return fmt.Sprintf("[%d]%s", field.ArrayLen, elem)
	case field.IsArray():
		return "[]" + elem
	}
	return elem
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", width-len(s))
}
