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

	"go.steamlang.org/steamlang/encoding/steamcbor"
	"go.steamlang.org/steamlang/encoding/steampb"
	"go.steamlang.org/steamlang/encoding/steamtext"
)

type cmdCompile struct {
	format       string
	protoPackage string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile INPUT",
		summary: "Write the resolved schema as text, CBOR or a protobuf descriptor",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output file (default stdout)")
	flags.StringVarP(&cmd.format, "format", "f", "text", "Output format (text, cbor, descriptor)")
	flags.StringVar(&cmd.protoPackage, "proto-package", "", "Protobuf package of the descriptor")
}

func (cmd *cmdCompile) run(ctx context.Context, sess *session, argv []string) int {
	switch cmd.format {
	case "text", "cbor", "descriptor":
	default:
		fmt.Fprintf(sess.stderr, "Unsupported output format %q (choose 'text', 'cbor' or 'descriptor')\n", cmd.format)
		return 1
	}

	schema := sess.loadSchema(ctx, argv[0])
	if schema == nil {
		return 1
	}

	var output []byte
	switch cmd.format {
	case "text":
		output = []byte(steamtext.Encode(schema))
	case "cbor":
		buf, err := steamcbor.MarshalSchema(schema)
		if err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		output = buf
	case "descriptor":
		fd, err := steampb.Descriptor(schema, cmd.protoPackage)
		if err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		buf, err := steampb.Marshal(fd)
		if err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		output = buf
	}
	return sess.writeOutput(sess.cfg.Output, output)
}
