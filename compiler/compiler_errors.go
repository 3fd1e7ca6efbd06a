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
	"math"
	"strconv"
	"strings"

	"go.steamlang.org/steamlang/syntax"
)

// ErrorKind classifies compile errors.
type ErrorKind uint8

const (
	LexError ErrorKind = iota + 1
	ParseError
	ImportError
	DuplicateTypeError
	UnresolvedTypeError
	CyclicTypeError
	DuplicateValueError
	DuplicateCodeError
	DuplicateNameError
	InvalidValueError
	InvalidLayoutError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case ImportError:
		return "ImportError"
	case DuplicateTypeError:
		return "DuplicateTypeError"
	case UnresolvedTypeError:
		return "UnresolvedTypeError"
	case CyclicTypeError:
		return "CyclicTypeError"
	case DuplicateValueError:
		return "DuplicateValueError"
	case DuplicateCodeError:
		return "DuplicateCodeError"
	case DuplicateNameError:
		return "DuplicateNameError"
	case InvalidValueError:
		return "InvalidValueError"
	case InvalidLayoutError:
		return "InvalidLayoutError"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// Error is a diagnostic attached to a location in a source file.
type Error struct {
	code    uint32
	kind    ErrorKind
	message string
	span    syntax.Span

	file string
	pos  syntax.Position
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Kind() ErrorKind {
	return err.kind
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

// File returns the path of the file containing the error.
func (err *Error) File() string {
	return err.file
}

func (err *Error) Position() syntax.Position {
	return err.pos
}

// Diagnostic formats the error as "file:line:col: E#### Kind: message".
func (err *Error) Diagnostic() string {
	var buf strings.Builder
	buf.WriteString(err.file)
	if err.pos.Line > 0 {
		fmt.Fprintf(&buf, ":%d:%d", err.pos.Line, err.pos.Column)
	}
	fmt.Fprintf(&buf, ": E%d %s: %s", err.code, err.kind, err.message)
	return buf.String()
}

func (err *Error) locate(file *syntax.File) *Error {
	err.file = file.Path()
	err.pos = file.Position(err.span.Start())
	return err
}

func fromSyntaxError(path string, lines *syntax.Lines, synErr *syntax.Error) *Error {
	kind := ParseError
	if synErr.IsLexError() {
		kind = LexError
	}
	err := &Error{
		code:    synErr.Code(),
		kind:    kind,
		message: synErr.Message(),
		span:    synErr.Span(),
		file:    path,
	}
	if lines != nil {
		err.pos = lines.Position(synErr.Span().Start())
	}
	return err
}

func declKindName(decl syntax.Decl) string {
	switch decl.(type) {
	case *syntax.Enum:
		return "enum"
	case *syntax.Flags:
		return "flags"
	case *syntax.Message:
		return "message"
	}
	return "declaration"
}

func errReadFile(path string, cause error) *Error {
	return &Error{
		code:    3000,
		kind:    ImportError,
		message: fmt.Sprintf("Failed to read %q: %v", path, cause),
		file:    path,
	}
}

func errImportNotFound(importPath string, cause error, span syntax.Span) *Error {
	return &Error{
		code:    3001,
		kind:    ImportError,
		message: fmt.Sprintf("Failed to import %q: %v", importPath, cause),
		span:    span,
	}
}

func errDeclNameConflict(
	prev syntax.Decl,
	prevFile *syntax.File,
	decl syntax.Decl,
) *Error {
	prevName := prev.Name()
	return &Error{
		code: 3002,
		kind: DuplicateTypeError,
		message: fmt.Sprintf(
			"Declaration of %s '%s' conflicts with earlier declaration"+
				" of %s '%s' at %s:%s",
			declKindName(decl), decl.Name().Get(),
			declKindName(prev), prevName.Get(),
			prevFile.Path(), prevFile.Position(prevName.Span().Start()),
		),
		span: decl.Name().Span(),
	}
}

func errTypeNotFound(name string, span syntax.Span) *Error {
	return &Error{
		code:    3003,
		kind:    UnresolvedTypeError,
		message: fmt.Sprintf("Type '%s' not found", name),
		span:    span,
	}
}

func errBaseTypeInvalid(declName, typeName string, span syntax.Span) *Error {
	return &Error{
		code: 3004,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Base type '%s' of '%s' is not an integer type",
			typeName, declName,
		),
		span: span,
	}
}

func errCyclicType(path []string, span syntax.Span) *Error {
	return &Error{
		code: 3005,
		kind: CyclicTypeError,
		message: fmt.Sprintf(
			"Message '%s' contains itself: %s",
			path[0], strings.Join(path, " -> "),
		),
		span: span,
	}
}

func errMemberValueConflict(
	declName, name, prevName string,
	value string,
	span syntax.Span,
) *Error {
	return &Error{
		code: 3006,
		kind: DuplicateValueError,
		message: fmt.Sprintf(
			"Value %s of '%s.%s' conflicts with '%s.%s'",
			value, declName, name, declName, prevName,
		),
		span: span,
	}
}

func errDispatchCodeConflict(code uint32, name, prevName string, span syntax.Span) *Error {
	return &Error{
		code: 3007,
		kind: DuplicateCodeError,
		message: fmt.Sprintf(
			"Dispatch code %d of message '%s' conflicts with message '%s'",
			code, name, prevName,
		),
		span: span,
	}
}

func errMemberNameConflict(declName, name string, span syntax.Span) *Error {
	return &Error{
		code: 3008,
		kind: DuplicateNameError,
		message: fmt.Sprintf(
			"Member '%s' of '%s' conflicts with an earlier member",
			name, declName,
		),
		span: span,
	}
}

func errFieldNameConflict(msgName, name string, span syntax.Span) *Error {
	return &Error{
		code: 3009,
		kind: DuplicateNameError,
		message: fmt.Sprintf(
			"Field '%s' of message '%s' conflicts with an earlier field",
			name, msgName,
		),
		span: span,
	}
}

func errValueOutOfRange(value string, base Primitive, span syntax.Span) *Error {
	lo, hi := base.Range()
	return &Error{
		code: 3010,
		kind: InvalidValueError,
		message: fmt.Sprintf(
			"Value %s is out of range for %s (%s..%s)",
			value, base, lo, hi,
		),
		span: span,
	}
}

func errMemberNotFound(declName, name string, span syntax.Span) *Error {
	return &Error{
		code:    3011,
		kind:    InvalidValueError,
		message: fmt.Sprintf("Member '%s' not found in '%s'", name, declName),
		span:    span,
	}
}

func errShiftOutOfRange(amount string, span syntax.Span) *Error {
	return &Error{
		code: 3012,
		kind: InvalidValueError,
		message: fmt.Sprintf(
			"Shift amount %s is out of range (0..%d)",
			amount, syntax.MaxShift,
		),
		span: span,
	}
}

func errFlagsMaskUndeclaredBits(declName, name string, bits uint64, span syntax.Span) *Error {
	return &Error{
		code: 3013,
		kind: InvalidValueError,
		message: fmt.Sprintf(
			"Value of '%s.%s' uses undeclared bits 0x%X",
			declName, name, bits,
		),
		span: span,
	}
}

func errOpenArrayNotLast(fieldName string, span syntax.Span) *Error {
	return &Error{
		code:    3014,
		kind:    InvalidLayoutError,
		message: fmt.Sprintf("Open array '%s' must be the last field", fieldName),
		span:    span,
	}
}

func errOpenArrayElemType(fieldName string, elemType string, span syntax.Span) *Error {
	return &Error{
		code: 3015,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Open array '%s' has element type '%s', expected byte",
			fieldName, elemType,
		),
		span: span,
	}
}

func errOpenMessageNotLast(fieldName, typeName string, span syntax.Span) *Error {
	return &Error{
		code: 3016,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Field '%s' of open message type '%s' must be the last field",
			fieldName, typeName,
		),
		span: span,
	}
}

func errOpenMessageInArray(fieldName, typeName string, span syntax.Span) *Error {
	return &Error{
		code: 3017,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Array field '%s' may not contain open message type '%s'",
			fieldName, typeName,
		),
		span: span,
	}
}

func errBoxedNotMessage(fieldName, typeName string, span syntax.Span) *Error {
	return &Error{
		code: 3018,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Boxed field '%s' has type '%s', expected a message type",
			fieldName, typeName,
		),
		span: span,
	}
}

func errBoxedArray(fieldName string, span syntax.Span) *Error {
	return &Error{
		code:    3019,
		kind:    InvalidLayoutError,
		message: fmt.Sprintf("Boxed field '%s' may not be an array", fieldName),
		span:    span,
	}
}

func errArrayLenInvalid(fieldName string, arrayLen uint64, span syntax.Span) *Error {
	return &Error{
		code: 3020,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Array length %d of field '%s' is out of range (1..%d)",
			arrayLen, fieldName, maxArrayLen,
		),
		span: span,
	}
}

func errDispatchNotEnum(name string, decl syntax.Decl, span syntax.Span) *Error {
	return &Error{
		code: 3021,
		kind: InvalidValueError,
		message: fmt.Sprintf(
			"Dispatch code must name an enum member, but '%s' is a %s",
			name, declKindName(decl),
		),
		span: span,
	}
}

func errDispatchCodeOutOfRange(value string, span syntax.Span) *Error {
	return &Error{
		code: 3022,
		kind: InvalidValueError,
		message: fmt.Sprintf(
			"Dispatch code %s is out of range (0..%d)",
			value, uint64(math.MaxUint32),
		),
		span: span,
	}
}

func errMessageTooLarge(name string, span syntax.Span) *Error {
	return &Error{
		code: 3023,
		kind: InvalidLayoutError,
		message: fmt.Sprintf(
			"Size of message '%s' exceeds maximum (%d bytes)",
			name, maxMessageSize,
		),
		span: span,
	}
}
