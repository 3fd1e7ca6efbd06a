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

package steamcbor_test

import (
	"testing"

	"go.steamlang.org/steamlang/compiler"
	"go.steamlang.org/steamlang/encoding/steamcbor"
	"go.steamlang.org/steamlang/encoding/steamtext"
	"go.steamlang.org/steamlang/internal/testutil"
	"go.steamlang.org/steamlang/syntax"
)

const testSrc = `
enum EMsg { ClientPing = 5001; }
flags EPerm : uint8 { Read; Write; All = Read | Write; }
message Header { EMsg msg; EPerm perm; }
message ClientPing <EMsg.ClientPing> {
	Header header;
	boxed Header other;
	byte payload[];
}
`

func compileTestSchema(t *testing.T) *compiler.Schema {
	t.Helper()
	file, err := syntax.Parse([]byte(testSrc), syntax.WithPath("test.steamd"))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.File{file})
	for _, err := range result.Errors {
		t.Fatal(err.Diagnostic())
	}
	return result.Schema
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := compileTestSchema(t)

	data, err := steamcbor.MarshalSchema(schema)
	testutil.AssertNoError(t, err)

	decoded, err := steamcbor.UnmarshalSchema(data)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, steamtext.Encode(schema), steamtext.Encode(decoded))
	testutil.ExpectSliceEq(t, schema.Files, decoded.Files)

	msg, ok := decoded.Message("ClientPing")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "EMsg.ClientPing", msg.Code.String())
	testutil.ExpectEq(t, uint32(5), msg.Source.Line)

	again, err := steamcbor.MarshalSchema(decoded)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, data, again)
}

func TestCanonicalEncoding(t *testing.T) {
	data, err := steamcbor.Marshal(compiler.DispatchEntry{Code: 1, Message: "A"})
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{
		0xA2,
		0x64, 'c', 'o', 'd', 'e', 0x01,
		0x67, 'm', 'e', 's', 's', 'a', 'g', 'e', 0x61, 'A',
	}, data)
}

func TestUnmarshalUnknownField(t *testing.T) {
	data, err := steamcbor.Marshal(map[string]any{"code": 1, "bogus": true})
	testutil.AssertNoError(t, err)

	var entry compiler.DispatchEntry
	testutil.AssertError(t, steamcbor.Unmarshal(data, &entry))

	_, err = steamcbor.UnmarshalSchema([]byte{0xFF})
	testutil.AssertError(t, err)
	testutil.ExpectMatch(t, "^steamcbor: decode schema: ", err.Error())
}
