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

// Package steampb exports a resolved schema as a protobuf file descriptor.
//
// Enums and flags become proto enums whose value names are prefixed with the
// enum name. Messages become proto messages with one field per wire field,
// numbered in wire order. Integer fields use fixed-width encodings so that
// every value of the original type is representable. Flags fields use the
// integer encoding of their base type, since a combination of flags is not
// an enum value.
package steampb

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"go.steamlang.org/steamlang/compiler"
)

// Descriptor builds a proto2 file descriptor for schema in package pkg.
func Descriptor(schema *compiler.Schema, pkg string) (*descriptorpb.FileDescriptorProto, error) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:   proto.String(fileName(pkg)),
		Syntax: proto.String("proto2"),
	}
	if pkg != "" {
		fd.Package = proto.String(pkg)
	}

	enums := make(map[string]*compiler.Enum, len(schema.Enums))
	for _, enum := range schema.Enums {
		enums[enum.Name] = enum
	}
	for decl := range schema.Decls() {
		switch decl := decl.(type) {
		case *compiler.Enum:
			// Proto enums must have at least one value.
			if len(decl.Members) == 0 {
				continue
			}
			enumDesc, err := enumDescriptor(decl)
			if err != nil {
				return nil, err
			}
			fd.EnumType = append(fd.EnumType, enumDesc)
		case *compiler.Message:
			fd.MessageType = append(fd.MessageType, messageDescriptor(decl, pkg, enums))
		}
	}

	if _, err := protodesc.NewFile(fd, new(protoregistry.Files)); err != nil {
		return nil, fmt.Errorf("steampb: invalid descriptor: %w", err)
	}
	return fd, nil
}

// Marshal encodes fd with deterministic field and map ordering.
func Marshal(fd *descriptorpb.FileDescriptorProto) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(fd)
}

func fileName(pkg string) string {
	if pkg == "" {
		return "steamlang.proto"
	}
	return strings.ReplaceAll(pkg, ".", "/") + ".proto"
}

func enumDescriptor(enum *compiler.Enum) (*descriptorpb.EnumDescriptorProto, error) {
	desc := &descriptorpb.EnumDescriptorProto{
		Name: proto.String(enum.Name),
	}
	for _, member := range enum.Members {
		number, ok := enumNumber(enum.Base, member.Value)
		if !ok {
			return nil, fmt.Errorf(
				"steampb: value %s of '%s.%s' does not fit in a proto enum",
				enum.Base.FormatValue(member.Value), enum.Name, member.Name,
			)
		}
		desc.Value = append(desc.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(enum.Name + "_" + member.Name),
			Number: proto.Int32(number),
		})
	}
	return desc, nil
}

func enumNumber(base compiler.Primitive, bits uint64) (int32, bool) {
	if base.IsSigned() {
		shift := 64 - base.Size()*8
		v := int64(bits<<shift) >> shift
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false
		}
		return int32(v), true
	}
	if bits > math.MaxInt32 {
		return 0, false
	}
	return int32(bits), true
}

func messageDescriptor(
	msg *compiler.Message,
	pkg string,
	enums map[string]*compiler.Enum,
) *descriptorpb.DescriptorProto {
	desc := &descriptorpb.DescriptorProto{
		Name: proto.String(msg.Name),
	}
	for ii, field := range msg.Fields {
		fieldDesc := &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(field.Name),
			Number: proto.Int32(int32(ii + 1)),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}
		isByteArray := field.Type.Kind == compiler.TypePrimitive &&
			field.Type.Primitive == compiler.PrimitiveUint8 &&
			field.IsArray()
		if field.IsArray() && !isByteArray {
			fieldDesc.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		}

		switch {
		case isByteArray:
			fieldDesc.Type = descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum()
		case field.Boxed:
			fieldDesc.Type = descriptorpb.FieldDescriptorProto_TYPE_FIXED64.Enum()
		case field.Type.Kind == compiler.TypePrimitive:
			fieldDesc.Type = primitiveType(field.Type.Primitive).Enum()
		case field.Type.Kind == compiler.TypeEnum && len(enums[field.Type.Name].Members) > 0:
			fieldDesc.Type = descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum()
			fieldDesc.TypeName = proto.String(typeName(pkg, field.Type.Name))
		case field.Type.Kind == compiler.TypeEnum, field.Type.Kind == compiler.TypeFlags:
			fieldDesc.Type = primitiveType(enums[field.Type.Name].Base).Enum()
		case field.Type.Kind == compiler.TypeMessage:
			fieldDesc.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
			fieldDesc.TypeName = proto.String(typeName(pkg, field.Type.Name))
		}
		desc.Field = append(desc.Field, fieldDesc)
	}
	return desc
}

func typeName(pkg, name string) string {
	if pkg == "" {
		return "." + name
	}
	return "." + pkg + "." + name
}

func primitiveType(p compiler.Primitive) descriptorpb.FieldDescriptorProto_Type {
	switch p {
	case compiler.PrimitiveBool:
		return descriptorpb.FieldDescriptorProto_TYPE_BOOL
	case compiler.PrimitiveUint8, compiler.PrimitiveUint16, compiler.PrimitiveUint32:
		return descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	case compiler.PrimitiveInt8, compiler.PrimitiveInt16, compiler.PrimitiveInt32:
		return descriptorpb.FieldDescriptorProto_TYPE_SFIXED32
	case compiler.PrimitiveUint64:
		return descriptorpb.FieldDescriptorProto_TYPE_FIXED64
	}
	return descriptorpb.FieldDescriptorProto_TYPE_SFIXED64
}
