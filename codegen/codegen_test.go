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

package codegen_test

import (
	"strings"
	"testing"

	"go.steamlang.org/steamlang/codegen"
	"go.steamlang.org/steamlang/compiler"
	"go.steamlang.org/steamlang/internal/testutil"
	"go.steamlang.org/steamlang/syntax"
)

func compileSource(t *testing.T, src string) *compiler.Schema {
	t.Helper()
	file, err := syntax.Parse([]byte(src), syntax.WithPath("test.steamd"))
	testutil.AssertNoError(t, err)
	result := compiler.Compile([]*syntax.File{file})
	for _, err := range result.Errors {
		t.Error(err.Diagnostic())
	}
	if t.Failed() {
		t.FailNow()
	}
	return result.Schema
}

const pingSource = `
enum EMsg {
	Ping = 5001;
}

flags EPerm : uint16 {
	Read;
	Write;
}

message Ping <EMsg.Ping> {
	uint32 clientId;
	EPerm perms;
	byte payload[];
}
`

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	opts := codegen.Options{Package: "steammsg"}
	first, err := codegen.Generate(compileSource(t, pingSource), opts)
	testutil.AssertNoError(t, err)
	second, err := codegen.Generate(compileSource(t, pingSource), opts)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, string(first), string(second))

	out := string(first)
	testutil.ExpectTrue(t, strings.HasPrefix(out, "// Code generated by steamlang. DO NOT EDIT.\n"))
	testutil.ExpectMatch(t, `(?m)^package steammsg$`, out)
	testutil.ExpectMatch(t, `(?m)^\t"go.steamlang.org/steamlang"$`, out)
	testutil.ExpectMatch(t, `(?m)^\tEPerm_Write EPerm = 0x0002$`, out)
	testutil.ExpectMatch(t, `(?m)^\tPayload  \[\]byte$`, out)
	testutil.ExpectMatch(t, `(?m)^\treturn uint32\(EMsg_Ping\)$`, out)
	testutil.ExpectMatch(t, `DecodeFunc\[Message, Ping\]\(\)`, out)
}

func TestGenerateNoDispatch(t *testing.T) {
	t.Parallel()

	out, err := codegen.Generate(compileSource(t, `
message Empty {}
`), codegen.Options{Package: "empty"})
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^type Empty struct\{\}$`, string(out))
	testutil.ExpectMatch(t, `(?m)^var registry = steamlang.MustRegistry\[Message\]\(\)$`, string(out))
	testutil.ExpectFalse(t, strings.Contains(string(out), `"strconv"`))
}

func TestGenerateRuntimeImport(t *testing.T) {
	t.Parallel()

	schema := compileSource(t, pingSource)
	out, err := codegen.Generate(schema, codegen.Options{
		Package:       "steammsg",
		RuntimeImport: "example.com/fork/steamlang",
	})
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^\t"example.com/fork/steamlang"$`, string(out))

	out, err = codegen.Generate(schema, codegen.Options{
		Package:       "steammsg",
		RuntimeImport: "example.com/fork/runtime/v2",
	})
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^\tsteamlang "example.com/fork/runtime/v2"$`, string(out))
}

func TestGenerateInvalidPackage(t *testing.T) {
	t.Parallel()

	schema := compileSource(t, pingSource)
	for _, pkg := range []string{"", "_", "steam-msg", "1msg"} {
		_, err := codegen.Generate(schema, codegen.Options{Package: pkg})
		testutil.AssertError(t, err)
		testutil.ExpectMatch(t, `^codegen: invalid package name `, err.Error())
	}
}

func TestGenerateNameCollision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		ident string
		first string
	}{
		{
			name:  "member constant",
			src:   "enum E { B = 1; }\nmessage E_B {}\n",
			ident: "E_B",
			first: "type 'E_B'",
		},
		{
			name:  "generated declaration",
			src:   "message Registry {}\n",
			ident: "Registry",
			first: "a generated declaration",
		},
		{
			name:  "keyword",
			src:   "message range {}\n",
			ident: "range",
			first: "a Go keyword",
		},
		{
			name:  "predeclared",
			src:   "message error {}\n",
			ident: "error",
			first: "a predeclared Go identifier",
		},
		{
			name:  "method",
			src:   "message M { uint32 sizeHint; }\n",
			ident: "SizeHint",
			first: "method SizeHint",
		},
		{
			name:  "job header method",
			src:   "message M { ulong targetJobId; ulong sourceJobId; uint32 targetJob; }\n",
			ident: "TargetJob",
			first: "method TargetJob",
		},
		{
			name:  "exported field",
			src:   "message M { uint32 id; uint32 Id; }\n",
			ident: "Id",
			first: "field 'M.id'",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := codegen.Generate(compileSource(t, test.src), codegen.Options{
				Package: "steammsg",
			})
			collision := testutil.AssertErrorAs[*codegen.NameCollisionError](t, err)
			testutil.ExpectEq(t, test.ident, collision.Name)
			testutil.ExpectEq(t, test.first, collision.First)
		})
	}
}

func TestGenerateSignedFlags(t *testing.T) {
	t.Parallel()

	out, err := codegen.Generate(compileSource(t, `
flags F : int8 {
	A = 1;
	High = -128;
}
`), codegen.Options{Package: "steammsg"})
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^\tF_A    F = 1$`, string(out))
	testutil.ExpectMatch(t, `(?m)^\tF_High F = -128$`, string(out))
	testutil.ExpectMatch(t, `strconv\.FormatUint\(uint64\(uint8\(rest\)\), 16\)`, string(out))
}

func TestGenerateJobHeader(t *testing.T) {
	t.Parallel()

	out, err := codegen.Generate(compileSource(t, `
message MsgHdr {
	uint32 msg;
	ulong targetJobId;
	uint64 SourceJobID;
}

message TargetOnly {
	ulong targetJobId;
}

message WrongType {
	uint32 targetJobId;
	uint32 sourceJobId;
}
`), codegen.Options{Package: "steammsg"})
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^var _ steamlang.JobHeader = \(\*MsgHdr\)\(nil\)$`, string(out))
	testutil.ExpectMatch(t, `(?m)^func \(m \*MsgHdr\) TargetJob\(\) uint64 \{\n\treturn m\.TargetJobId\n\}$`, string(out))
	testutil.ExpectMatch(t, `(?m)^func \(m \*MsgHdr\) SetSourceJob\(id uint64\) \{\n\tm\.SourceJobID = id\n\}$`, string(out))
	testutil.ExpectEq(t, 1, strings.Count(string(out), "steamlang.JobHeader"))
}
