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
	"iter"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// Primitive is a built-in scalar type.
type Primitive uint8

const (
	PrimitiveInvalid Primitive = iota
	PrimitiveBool
	PrimitiveInt8
	PrimitiveUint8
	PrimitiveInt16
	PrimitiveUint16
	PrimitiveInt32
	PrimitiveUint32
	PrimitiveInt64
	PrimitiveUint64
)

var primitivesByName = map[string]Primitive{
	"bool":   PrimitiveBool,
	"int8":   PrimitiveInt8,
	"uint8":  PrimitiveUint8,
	"byte":   PrimitiveUint8,
	"int16":  PrimitiveInt16,
	"uint16": PrimitiveUint16,
	"int32":  PrimitiveInt32,
	"uint32": PrimitiveUint32,
	"int64":  PrimitiveInt64,
	"uint64": PrimitiveUint64,

	// Legacy spellings found in older schema files.
	"short":  PrimitiveInt16,
	"ushort": PrimitiveUint16,
	"int":    PrimitiveInt32,
	"uint":   PrimitiveUint32,
	"long":   PrimitiveInt64,
	"ulong":  PrimitiveUint64,
}

// LookupPrimitive returns the primitive spelled name, including legacy
// aliases such as "ushort".
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

func (p Primitive) String() string {
	switch p {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt8:
		return "int8"
	case PrimitiveUint8:
		return "uint8"
	case PrimitiveInt16:
		return "int16"
	case PrimitiveUint16:
		return "uint16"
	case PrimitiveInt32:
		return "int32"
	case PrimitiveUint32:
		return "uint32"
	case PrimitiveInt64:
		return "int64"
	case PrimitiveUint64:
		return "uint64"
	}
	return "Primitive(" + strconv.Itoa(int(p)) + ")"
}

// Size returns the wire size in bytes.
func (p Primitive) Size() int {
	switch p {
	case PrimitiveBool, PrimitiveInt8, PrimitiveUint8:
		return 1
	case PrimitiveInt16, PrimitiveUint16:
		return 2
	case PrimitiveInt32, PrimitiveUint32:
		return 4
	case PrimitiveInt64, PrimitiveUint64:
		return 8
	}
	return 0
}

func (p Primitive) IsInteger() bool {
	return p >= PrimitiveInt8 && p <= PrimitiveUint64
}

func (p Primitive) IsSigned() bool {
	switch p {
	case PrimitiveInt8, PrimitiveInt16, PrimitiveInt32, PrimitiveInt64:
		return true
	}
	return false
}

// Range returns the smallest and largest values of an integer primitive.
func (p Primitive) Range() (lo, hi *big.Int) {
	bits := uint(p.Size() * 8)
	one := big.NewInt(1)
	if p.IsSigned() {
		hi = new(big.Int).Sub(new(big.Int).Lsh(one, bits-1), one)
		lo = new(big.Int).Neg(new(big.Int).Lsh(one, bits-1))
	} else {
		hi = new(big.Int).Sub(new(big.Int).Lsh(one, bits), one)
		lo = new(big.Int)
	}
	return lo, hi
}

// Mask returns a value with every bit of the primitive's width set.
func (p Primitive) Mask() uint64 {
	if p.Size() == 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(p.Size()*8) - 1
}

// FormatValue renders a value stored as a bit pattern in decimal, applying
// sign extension for signed primitives.
func (p Primitive) FormatValue(v uint64) string {
	if p.IsSigned() {
		shift := 64 - p.Size()*8
		return strconv.FormatInt(int64(v<<shift)>>shift, 10)
	}
	return strconv.FormatUint(v, 10)
}

type TypeKind uint8

const (
	TypePrimitive TypeKind = iota
	TypeEnum
	TypeFlags
	TypeMessage
)

func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypeEnum:
		return "enum"
	case TypeFlags:
		return "flags"
	case TypeMessage:
		return "message"
	}
	return "TypeKind(" + strconv.Itoa(int(k)) + ")"
}

// Type is a resolved field type.
type Type struct {
	Kind      TypeKind  `cbor:"kind"`
	Primitive Primitive `cbor:"primitive,omitempty"`
	Name      string    `cbor:"name,omitempty"`
}

func (t Type) String() string {
	if t.Kind == TypePrimitive {
		return t.Primitive.String()
	}
	return t.Name
}

// Source is the location of a declaration.
type Source struct {
	File   string `cbor:"file"`
	Line   uint32 `cbor:"line"`
	Column uint32 `cbor:"column"`
}

// Schema is the resolved form of one compilation unit.
type Schema struct {
	Files    []string         `cbor:"files"`
	Enums    []*Enum          `cbor:"enums"`
	Messages []*Message       `cbor:"messages"`
	Dispatch []*DispatchEntry `cbor:"dispatch"`
}

// Decl is an [*Enum] or [*Message].
type Decl interface {
	DeclName() string
	DeclOrdinal() int
}

// Decls returns every declaration in source order.
func (s *Schema) Decls() iter.Seq[Decl] {
	return func(yield func(Decl) bool) {
		decls := make([]Decl, 0, len(s.Enums)+len(s.Messages))
		for _, enum := range s.Enums {
			decls = append(decls, enum)
		}
		for _, msg := range s.Messages {
			decls = append(decls, msg)
		}
		slices.SortFunc(decls, func(a, b Decl) int {
			return a.DeclOrdinal() - b.DeclOrdinal()
		})
		for _, decl := range decls {
			if !yield(decl) {
				return
			}
		}
	}
}

func (s *Schema) Enum(name string) (*Enum, bool) {
	for _, enum := range s.Enums {
		if enum.Name == name {
			return enum, true
		}
	}
	return nil, false
}

func (s *Schema) Message(name string) (*Message, bool) {
	for _, msg := range s.Messages {
		if msg.Name == name {
			return msg, true
		}
	}
	return nil, false
}

// Enum is a resolved enum or flags declaration.
type Enum struct {
	Name    string    `cbor:"name"`
	IsFlags bool      `cbor:"flags,omitempty"`
	Base    Primitive `cbor:"base"`
	Members []*Member `cbor:"members"`
	Source  Source    `cbor:"source"`
	Ordinal int       `cbor:"ordinal"`
}

func (e *Enum) DeclName() string {
	return e.Name
}

func (e *Enum) DeclOrdinal() int {
	return e.Ordinal
}

// Member is an enum or flags member. Value holds the bit pattern of the
// member's value, truncated to the width of the base type.
type Member struct {
	Name  string `cbor:"name"`
	Value uint64 `cbor:"value"`
}

// IsSingleBit reports whether the member's value has exactly one bit set.
func (m *Member) IsSingleBit() bool {
	return m.Value != 0 && m.Value&(m.Value-1) == 0
}

// Message is a resolved message declaration.
type Message struct {
	Name   string   `cbor:"name"`
	Fields []*Field `cbor:"fields"`

	// Size is the encoded size of the message, or of its fixed prefix when
	// Open is set.
	Size int  `cbor:"size"`
	Open bool `cbor:"open,omitempty"`

	Code *DispatchCode `cbor:"code,omitempty"`

	Source  Source `cbor:"source"`
	Ordinal int    `cbor:"ordinal"`
}

func (m *Message) DeclName() string {
	return m.Name
}

func (m *Message) DeclOrdinal() int {
	return m.Ordinal
}

// JobFields returns the targetJobId and sourceJobId fields of a message
// header. Names match case-insensitively and both fields must be scalar
// uint64, otherwise JobFields returns nils.
func (m *Message) JobFields() (target, source *Field) {
	for _, field := range m.Fields {
		if field.IsArray() || field.Boxed || field.Type.Kind != TypePrimitive ||
			field.Type.Primitive != PrimitiveUint64 {
			continue
		}
		switch {
		case strings.EqualFold(field.Name, "targetJobId"):
			target = field
		case strings.EqualFold(field.Name, "sourceJobId"):
			source = field
		}
	}
	if target == nil || source == nil {
		return nil, nil
	}
	return target, source
}

// DispatchCode is the numeric code of a message, written either as a literal
// or as a reference to an enum member.
type DispatchCode struct {
	Value  uint32 `cbor:"value"`
	Enum   string `cbor:"enum,omitempty"`
	Member string `cbor:"member,omitempty"`
}

func (c *DispatchCode) String() string {
	if c.Enum != "" {
		return c.Enum + "." + c.Member
	}
	return strconv.FormatUint(uint64(c.Value), 10)
}

// Field is one field of a message, in wire order.
type Field struct {
	Name string `cbor:"name"`
	Type Type   `cbor:"type"`

	// ArrayLen is the fixed array length, or zero for scalars and open
	// arrays.
	ArrayLen int  `cbor:"array_len,omitempty"`
	Boxed    bool `cbor:"boxed,omitempty"`

	// Open is set on a trailing field whose length is determined by the
	// remaining input: an open byte array or an open nested message.
	Open bool `cbor:"open,omitempty"`

	Offset int `cbor:"offset"`
	Size   int `cbor:"size"`
}

func (f *Field) IsArray() bool {
	return f.ArrayLen > 0 || (f.Open && f.Type.Kind == TypePrimitive)
}

// DispatchEntry associates a dispatch code with a message.
type DispatchEntry struct {
	Code    uint32 `cbor:"code"`
	Message string `cbor:"message"`
}
