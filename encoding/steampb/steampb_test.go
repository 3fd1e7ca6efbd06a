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

package steampb_test

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"go.steamlang.org/steamlang/compiler"
	"go.steamlang.org/steamlang/encoding/steampb"
	"go.steamlang.org/steamlang/internal/testutil"
	"go.steamlang.org/steamlang/syntax"
)

func compileSrc(t *testing.T, src string) *compiler.Schema {
	t.Helper()
	file, err := syntax.Parse([]byte(src), syntax.WithPath("test.steamd"))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.File{file})
	for _, err := range result.Errors {
		t.Fatal(err.Diagnostic())
	}
	return result.Schema
}

func TestDescriptor(t *testing.T) {
	schema := compileSrc(t, `
message ClientLogon <EMsg.ClientLogon> {
	Header header;
	EMsg kind;
	EPerm perm;
	byte sessionKey[16];
	int16 scores[3];
	boxed Header parent;
	bool ok;
	long steamId;
	ulong jobId;
	byte extra[];
}

message Header { uint32 size; }

enum EMsg { Invalid = 0; ClientLogon = 5514; }
flags EPerm : uint8 { Read; Write; }
enum EEmpty {}
`)

	fd, err := steampb.Descriptor(schema, "steam.protocol")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "steam/protocol.proto", fd.GetName())
	testutil.ExpectEq(t, "proto2", fd.GetSyntax())

	file, err := protodesc.NewFile(fd, new(protoregistry.Files))
	testutil.AssertNoError(t, err)

	testutil.ExpectEq(t, 2, file.Enums().Len())
	emsg := file.Enums().ByName("EMsg")
	testutil.ExpectEq(t, protoreflect.EnumNumber(5514), emsg.Values().ByName("EMsg_ClientLogon").Number())

	logon := file.Messages().ByName("ClientLogon")
	fields := logon.Fields()
	testutil.ExpectEq(t, 10, fields.Len())

	expect := []struct {
		name        protoreflect.Name
		kind        protoreflect.Kind
		cardinality protoreflect.Cardinality
	}{
		{"header", protoreflect.MessageKind, protoreflect.Optional},
		{"kind", protoreflect.EnumKind, protoreflect.Optional},
		{"perm", protoreflect.Fixed32Kind, protoreflect.Optional},
		{"sessionKey", protoreflect.BytesKind, protoreflect.Optional},
		{"scores", protoreflect.Sfixed32Kind, protoreflect.Repeated},
		{"parent", protoreflect.Fixed64Kind, protoreflect.Optional},
		{"ok", protoreflect.BoolKind, protoreflect.Optional},
		{"steamId", protoreflect.Sfixed64Kind, protoreflect.Optional},
		{"jobId", protoreflect.Fixed64Kind, protoreflect.Optional},
		{"extra", protoreflect.BytesKind, protoreflect.Optional},
	}
	for ii, want := range expect {
		field := fields.Get(ii)
		testutil.ExpectEq(t, want.name, field.Name())
		testutil.ExpectEq(t, protoreflect.FieldNumber(ii+1), field.Number())
		testutil.ExpectEq(t, want.kind, field.Kind())
		testutil.ExpectEq(t, want.cardinality, field.Cardinality())
	}
	testutil.ExpectEq(t, protoreflect.FullName("steam.protocol.Header"), fields.ByName("header").Message().FullName())
}

func TestDescriptorNoPackage(t *testing.T) {
	schema := compileSrc(t, `enum E { A; } message M { E e; }`)
	fd, err := steampb.Descriptor(schema, "")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "steamlang.proto", fd.GetName())
	testutil.ExpectEq(t, ".E", fd.GetMessageType()[0].GetField()[0].GetTypeName())
}

func TestDescriptorValueOutOfRange(t *testing.T) {
	schema := compileSrc(t, `enum Big : uint64 { Huge = 0x1_0000_0000; }`)
	_, err := steampb.Descriptor(schema, "big")
	testutil.AssertError(t, err)
	testutil.ExpectMatch(t, `^steampb: value 4294967296 of 'Big\.Huge' does not fit`, err.Error())
}

func TestMarshalDeterministic(t *testing.T) {
	schema := compileSrc(t, `enum E { A; B; } message M { E e; uint8 x[4]; }`)
	fd, err := steampb.Descriptor(schema, "test")
	testutil.AssertNoError(t, err)

	first, err := steampb.Marshal(fd)
	testutil.AssertNoError(t, err)
	second, err := steampb.Marshal(fd)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, first, second)

	var decoded descriptorpb.FileDescriptorProto
	testutil.AssertNoError(t, proto.Unmarshal(first, &decoded))
	testutil.ExpectTrue(t, proto.Equal(fd, &decoded))
}
