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

package syntax_test

import (
	"fmt"
	"testing"

	"go.steamlang.org/steamlang/internal/testutil"
	"go.steamlang.org/steamlang/syntax"
)

type strToken struct {
	kind    string
	content string
}

func lexAll(t *testing.T, src string) []strToken {
	t.Helper()
	tokens, err := syntax.NewTokens([]byte(src))
	testutil.AssertNoError(t, err)

	var got []strToken
	for {
		var token syntax.Token
		testutil.AssertNoError(t, tokens.Next(&token))
		if token.Kind == syntax.T_EOF {
			break
		}
		got = append(got, strToken{
			kind:    token.Kind.String(),
			content: src[:token.Len],
		})
		src = src[token.Len:]
	}
	return got
}

func TestTokens(t *testing.T) {
	tests := []struct {
		src  string
		want []strToken
	}{
		{
			src: "enum E:uint8{A=1;}",
			want: []strToken{
				{"IDENT", "enum"},
				{"SPACE", " "},
				{"IDENT", "E"},
				{"COLON", ":"},
				{"IDENT", "uint8"},
				{"OPEN_CURL", "{"},
				{"IDENT", "A"},
				{"EQ", "="},
				{"INT_LIT", "1"},
				{"SEMICOLON", ";"},
				{"CLOSE_CURL", "}"},
			},
		},
		{
			src: "a<<b<c>d|-e",
			want: []strToken{
				{"IDENT", "a"},
				{"SHL", "<<"},
				{"IDENT", "b"},
				{"LT", "<"},
				{"IDENT", "c"},
				{"GT", ">"},
				{"IDENT", "d"},
				{"PIPE", "|"},
				{"MINUS", "-"},
				{"IDENT", "e"},
			},
		},
		{
			src: "// line\r\n/* block\n*/\t",
			want: []strToken{
				{"COMMENT", "// line"},
				{"NEWLINE", "\r\n"},
				{"COMMENT", "/* block\n*/"},
				{"SPACE", "\t"},
			},
		},
		{
			src: "0x1F 10_000 0 0XFF",
			want: []strToken{
				{"HEX_INT_LIT", "0x1F"},
				{"SPACE", " "},
				{"INT_LIT", "10_000"},
				{"SPACE", " "},
				{"INT_LIT", "0"},
				{"SPACE", " "},
				{"HEX_INT_LIT", "0XFF"},
			},
		},
		{
			src: `"common.steamd" "a\"b"`,
			want: []strToken{
				{"TEXT_LIT", `"common.steamd"`},
				{"SPACE", " "},
				{"TEXT_LIT", `"a\"b"`},
			},
		},
		{
			src: "k_EMsgInvalid _private a.b[]()",
			want: []strToken{
				{"IDENT", "k_EMsgInvalid"},
				{"SPACE", " "},
				{"IDENT", "_private"},
				{"SPACE", " "},
				{"IDENT", "a"},
				{"DOT", "."},
				{"IDENT", "b"},
				{"OPEN_SQUARE", "["},
				{"CLOSE_SQUARE", "]"},
				{"OPEN_PAREN", "("},
				{"CLOSE_PAREN", ")"},
			},
		},
	}
	for ii, test := range tests {
		t.Run(fmt.Sprintf("expect_ok/%d", ii), func(t *testing.T) {
			t.Parallel()
			t.Logf("source: %q", test.src)
			testutil.ExpectSliceEq(t, test.want, lexAll(t, test.src))
		})
	}
}

func TestTokenErrors(t *testing.T) {
	tests := []struct {
		src       string
		code      uint32
		start     uint32
		len       uint32
		messageRe string
	}{
		{src: `"abc`, code: 1006, start: 0, len: 4},
		{src: "\"a\nb\"", code: 1007, start: 2, len: 1},
		{src: "\"a\r\nb\"", code: 1007, start: 2, len: 2},
		{src: "x /* abc", code: 1009, start: 2, len: 6},
		{src: "07", code: 1005, start: 0, len: 2},
		{src: "12ab", code: 1005, start: 0, len: 4, messageRe: `"12ab"`},
		{src: "0x", code: 1005, start: 0, len: 2},
		{src: "1_", code: 1005, start: 0, len: 2},
		{src: "__", code: 1008, start: 0, len: 2},
		{src: "a @", code: 1002, start: 2, len: 1, messageRe: `U\+0040`},
		{src: "a / b", code: 1002, start: 2, len: 1},
		{src: "\x01", code: 1003, start: 0, len: 1},
		{src: "a\rb", code: 1003, start: 1, len: 1},
	}
	for ii, test := range tests {
		t.Run(fmt.Sprintf("expect_err/%d", ii), func(t *testing.T) {
			t.Parallel()
			t.Logf("source: %q", test.src)

			tokens, err := syntax.NewTokens([]byte(test.src))
			testutil.AssertNoError(t, err)
			for {
				var token syntax.Token
				err = tokens.Next(&token)
				if err != nil || token.Kind == syntax.T_EOF {
					break
				}
			}
			testutil.AssertError(t, err)

			lexErr := testutil.AssertErrorAs[*syntax.Error](t, err)
			testutil.ExpectEq(t, test.code, lexErr.Code())
			testutil.ExpectTrue(t, lexErr.IsLexError())
			testutil.ExpectEq(t, syntax.NewSpan(test.start, test.len), lexErr.Span())
			if test.messageRe != "" {
				testutil.ExpectMatch(t, test.messageRe, lexErr.Message())
			}
		})
	}
}

func TestInvalidUtf8(t *testing.T) {
	_, err := syntax.NewTokens([]byte("enum \xff"))
	lexErr := testutil.AssertErrorAs[*syntax.Error](t, err)
	testutil.ExpectEq(t, 1001, lexErr.Code())
	testutil.ExpectEq(t, syntax.NewSpan(5, 1), lexErr.Span())
}
