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

package codegen

import (
	"fmt"
	"go/token"
)

// NameCollisionError reports a schema name that cannot be used verbatim as
// a Go identifier in the generated package.
type NameCollisionError struct {
	Name   string
	First  string
	Second string
}

var _ error = (*NameCollisionError)(nil)

func (err *NameCollisionError) Error() string {
	return fmt.Sprintf(
		"codegen: Go identifier %q of %s conflicts with %s",
		err.Name, err.Second, err.First,
	)
}

// Identifiers declared by every generated file, or imported into it.
var reservedNames = []string{
	"DecodeDispatch",
	"Message",
	"Registry",
	"registry",
	"steamlang",
	"strconv",
	"strings",
}

// Methods of generated message types.
var messageMethods = []string{
	"AppendTo",
	"Code",
	"Decode",
	"DecodeFrom",
	"Encode",
	"SizeHint",
	"isMessage",
}

// Methods of generated message types that carry job ids.
var jobHeaderMethods = []string{
	"SetSourceJob",
	"SetTargetJob",
	"SourceJob",
	"TargetJob",
}

var predeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"clear": true, "close": true, "comparable": true, "complex": true,
	"complex128": true, "complex64": true, "copy": true, "delete": true,
	"error": true, "false": true, "float32": true, "float64": true,
	"imag": true, "int": true, "int16": true, "int32": true, "int64": true,
	"int8": true, "iota": true, "len": true, "make": true, "max": true,
	"min": true, "new": true, "nil": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true, "rune": true,
	"string": true, "true": true, "uint": true, "uint16": true,
	"uint32": true, "uint64": true, "uint8": true, "uintptr": true,
}

type scope map[string]string

func (s scope) declare(name, owner string) error {
	if token.IsKeyword(name) {
		return &NameCollisionError{Name: name, First: "a Go keyword", Second: owner}
	}
	if name == "_" {
		return &NameCollisionError{Name: name, First: "the blank identifier", Second: owner}
	}
	if first, ok := s[name]; ok {
		return &NameCollisionError{Name: name, First: first, Second: owner}
	}
	s[name] = owner
	return nil
}

func (g *generator) checkNames() error {
	pkg := make(scope)
	for _, name := range reservedNames {
		pkg[name] = "a generated declaration"
	}
	for name := range predeclared {
		pkg[name] = "a predeclared Go identifier"
	}

	for _, enum := range g.schema.Enums {
		if err := pkg.declare(enum.Name, fmt.Sprintf("type '%s'", enum.Name)); err != nil {
			return err
		}
	}
	for _, msg := range g.schema.Messages {
		if err := pkg.declare(msg.Name, fmt.Sprintf("type '%s'", msg.Name)); err != nil {
			return err
		}
	}
	for _, enum := range g.schema.Enums {
		for _, member := range enum.Members {
			owner := fmt.Sprintf("member '%s.%s'", enum.Name, member.Name)
			if err := pkg.declare(memberConst(enum, member), owner); err != nil {
				return err
			}
		}
	}

	for _, msg := range g.schema.Messages {
		fields := make(scope)
		for _, method := range messageMethods {
			fields[method] = "method " + method
		}
		if target, _ := msg.JobFields(); target != nil {
			for _, method := range jobHeaderMethods {
				fields[method] = "method " + method
			}
		}
		for _, field := range msg.Fields {
			owner := fmt.Sprintf("field '%s.%s'", msg.Name, field.Name)
			if err := fields.declare(exportName(field.Name), owner); err != nil {
				return err
			}
		}
	}
	return nil
}
