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

package testmsgs_test

import (
	"os"
	"testing"

	"go.steamlang.org/steamlang/codegen"
	"go.steamlang.org/steamlang/compiler"
	"go.steamlang.org/steamlang/internal/testutil"
	"go.steamlang.org/steamlang/syntax"
)

func TestGeneratedCodeUpToDate(t *testing.T) {
	src, err := os.ReadFile("testmsgs.steamd")
	testutil.AssertNoError(t, err)
	file, err := syntax.Parse(src, syntax.WithPath("testmsgs.steamd"))
	testutil.AssertNoError(t, err)

	result := compiler.Compile([]*syntax.File{file})
	for _, err := range result.Errors {
		t.Error(err.Diagnostic())
	}
	if t.Failed() {
		t.FailNow()
	}

	got, err := codegen.Generate(result.Schema, codegen.Options{
		Package: "testmsgs",
	})
	testutil.AssertNoError(t, err)
	want, err := os.ReadFile("testmsgs.go")
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, string(want), string(got))
}
