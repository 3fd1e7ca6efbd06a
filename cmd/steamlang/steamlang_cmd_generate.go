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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.steamlang.org/steamlang/codegen"
)

type cmdGenerate struct{}

func (*cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate INPUT [OUTPUT]",
		summary: "Generate Go source for a schema",
		args:    cobra.RangeArgs(1, 2),
	}
}

func (*cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output file (default stdout)")
	flags.String("package", "", "Name of the generated Go package")
	flags.String("runtime-import", "", "Import path of the steamlang runtime")
}

func (*cmdGenerate) run(ctx context.Context, sess *session, argv []string) int {
	output := sess.cfg.Output
	if len(argv) > 1 {
		output = argv[1]
	}

	schema := sess.loadSchema(ctx, argv[0])
	if schema == nil {
		return 1
	}
	src, err := codegen.Generate(schema, codegen.Options{
		Package:       sess.cfg.Package,
		RuntimeImport: sess.cfg.RuntimeImport,
	})
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}
	return sess.writeOutput(output, src)
}

type cmdCheck struct{}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check INPUT",
		summary: "Report errors in a schema without writing output",
		args:    cobra.ExactArgs(1),
	}
}

func (*cmdCheck) flags(flags *pflag.FlagSet) {
	flags.String("package", "", "Name of the generated Go package")
}

func (*cmdCheck) run(ctx context.Context, sess *session, argv []string) int {
	schema := sess.loadSchema(ctx, argv[0])
	if schema == nil {
		return 1
	}
	// Name collisions are only detected by the emitter.
	if _, err := codegen.Generate(schema, codegen.Options{
		Package: sess.cfg.Package,
	}); err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}
	return 0
}
