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
	"slices"

	"go.steamlang.org/steamlang"
	"go.steamlang.org/steamlang/syntax"
)

func (c *compiler) compileMessage(info *declInfo) {
	node := info.node.(*syntax.Message)
	msg := &Message{
		Name:    info.name,
		Source:  c.source(info),
		Ordinal: info.ordinal,
	}
	info.message = msg

	fieldNames := make(map[string]struct{}, node.FieldCount())
	for fieldNode := range node.Fields() {
		info.lastField = fieldNode
	}
	for fieldNode := range node.Fields() {
		name := fieldNode.Name().Get()
		if _, conflict := fieldNames[name]; conflict {
			c.err(info.file, errFieldNameConflict(info.name, name, fieldNode.Name().Span()))
			continue
		}
		fieldNames[name] = struct{}{}

		typeName := fieldNode.TypeName()
		fieldType, ok := c.resolveType(info.file, typeName)
		if !ok {
			continue
		}
		field := &Field{
			Name:  name,
			Type:  fieldType,
			Boxed: fieldNode.IsBoxed(),
		}

		if field.Boxed {
			if fieldType.Kind != TypeMessage {
				c.err(info.file, errBoxedNotMessage(name, typeName.Get(), typeName.Span()))
			}
			if fieldNode.IsArray() {
				c.err(info.file, errBoxedArray(name, fieldNode.Name().Span()))
			}
		}

		if fieldNode.IsArray() {
			if arrayLen := fieldNode.ArrayLen(); arrayLen != nil {
				n := arrayLen.Get()
				if n == 0 || n > maxArrayLen {
					c.err(info.file, errArrayLenInvalid(name, n, arrayLen.Span()))
				} else {
					field.ArrayLen = int(n)
				}
			} else {
				if fieldType.Kind != TypePrimitive || fieldType.Primitive != PrimitiveUint8 {
					c.err(info.file, errOpenArrayElemType(name, typeName.Get(), typeName.Span()))
				}
				if fieldNode != info.lastField {
					c.err(info.file, errOpenArrayNotLast(name, fieldNode.Name().Span()))
				}
				field.Open = true
			}
		}

		msg.Fields = append(msg.Fields, field)
		info.fieldNodes = append(info.fieldNodes, fieldNode)
	}
}

func (c *compiler) resolveType(file *syntax.File, ident *syntax.Ident) (Type, bool) {
	name := ident.Get()
	if p, ok := LookupPrimitive(name); ok {
		return Type{Kind: TypePrimitive, Primitive: p}, true
	}
	info, ok := c.ns.decls[name]
	if !ok {
		c.err(file, errTypeNotFound(name, ident.Span()))
		return Type{}, false
	}
	switch info.node.(type) {
	case *syntax.Enum:
		return Type{Kind: TypeEnum, Name: name}, true
	case *syntax.Flags:
		return Type{Kind: TypeFlags, Name: name}, true
	}
	return Type{Kind: TypeMessage, Name: name}, true
}

// layoutMessage assigns field offsets and sizes, laying out embedded
// messages first. stack holds the messages currently being laid out; an
// embedded message found on the stack closes a cycle.
func (c *compiler) layoutMessage(info *declInfo, stack []*declInfo) bool {
	switch info.layout {
	case layoutDone:
		return true
	case layoutFailed:
		return false
	}
	info.layout = layoutVisiting
	stack = append(stack, info)

	msg := info.message
	ok := true
	offset := 0
	for ii, field := range msg.Fields {
		fieldNode := info.fieldNodes[ii]
		elemSize := 0
		switch field.Type.Kind {
		case TypePrimitive:
			elemSize = field.Type.Primitive.Size()
		case TypeEnum, TypeFlags:
			elemSize = c.ns.decls[field.Type.Name].enum.Base.Size()
		case TypeMessage:
			if field.Boxed {
				elemSize = steamlang.RefSize
				break
			}
			dep := c.ns.decls[field.Type.Name]
			if dep.layout == layoutVisiting {
				cycleStart := slices.Index(stack, dep)
				var path []string
				for _, visiting := range stack[cycleStart:] {
					path = append(path, visiting.name)
				}
				path = append(path, dep.name)
				c.err(info.file, errCyclicType(path, fieldNode.TypeName().Span()))
				ok = false
				continue
			}
			if !c.layoutMessage(dep, stack) {
				ok = false
				continue
			}
			elemSize = dep.message.Size
			if dep.message.Open {
				typeSpan := fieldNode.TypeName().Span()
				if fieldNode.IsArray() {
					c.err(info.file, errOpenMessageInArray(field.Name, dep.name, typeSpan))
					ok = false
					continue
				}
				if fieldNode != info.lastField {
					c.err(info.file, errOpenMessageNotLast(field.Name, dep.name, typeSpan))
					ok = false
					continue
				}
				field.Open = true
			}
		}

		size := int64(elemSize)
		switch {
		case field.ArrayLen > 0:
			size *= int64(field.ArrayLen)
		case field.Open && field.Type.Kind == TypePrimitive:
			size = 0
		}
		if int64(offset)+size > maxMessageSize {
			c.err(info.file, errMessageTooLarge(info.name, info.node.Name().Span()))
			ok = false
			break
		}
		field.Offset = offset
		field.Size = int(size)
		offset += field.Size
	}

	msg.Size = offset
	msg.Open = len(msg.Fields) > 0 && msg.Fields[len(msg.Fields)-1].Open
	if ok {
		info.layout = layoutDone
	} else {
		info.layout = layoutFailed
	}
	return ok
}
