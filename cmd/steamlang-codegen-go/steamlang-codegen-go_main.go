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
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"go.steamlang.org/steamlang/codegen"
	"go.steamlang.org/steamlang/compiler"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logConfig.DisableStacktrace = true
	logger, err := logConfig.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var opts codegen.Options
	var serve bool
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags.StringVar(&opts.Package, "package", "steammsg", "Name of the generated Go package")
	flags.StringVar(&opts.RuntimeImport, "runtime-import", "", "Import path of the steamlang runtime")
	flags.BoolVar(&serve, "serve", false, "Read a codegen request from stdin and write the response to stdout")
	flags.Parse(os.Args[1:])

	if serve {
		requestBuf, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("read request", zap.Error(err))
		}
		responseBuf, rc := codegen.Serve(requestBuf)
		if _, err := os.Stdout.Write(responseBuf); err != nil {
			logger.Fatal("write response", zap.Error(err))
		}
		os.Exit(int(rc))
	}

	args := flags.Args()
	if len(args) < 1 {
		logger.Fatal("usage: " + os.Args[0] + " [options] SCHEMA...")
	}
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if !filepath.IsLocal(arg) {
			logger.Fatal("schema path must be relative to the working directory", zap.String("path", arg))
		}
		paths = append(paths, filepath.ToSlash(arg))
	}

	compileOpts := compiler.NewCompileOptions(compiler.WithLogger(logger))
	parsed, err := compileOpts.ParseFiles(context.Background(), os.DirFS("."), paths)
	if err != nil {
		logger.Fatal("parse", zap.Error(err))
	}
	diagnostics := parsed.Errors
	var schema *compiler.Schema
	if len(diagnostics) == 0 {
		compiled := compileOpts.Compile(parsed.Files)
		for _, warn := range compiled.Warnings {
			logger.Warn(warn.Diagnostic())
		}
		diagnostics = compiled.Errors
		schema = compiled.Schema
	}
	if len(diagnostics) > 0 {
		for _, err := range diagnostics {
			logger.Error(err.Diagnostic())
		}
		logger.Sync()
		os.Exit(1)
	}

	src, err := codegen.Generate(schema, opts)
	if err != nil {
		logger.Fatal("generate", zap.Error(err))
	}
	if _, err := os.Stdout.Write(src); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}
}
