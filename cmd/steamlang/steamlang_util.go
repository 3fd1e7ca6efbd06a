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
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"go.steamlang.org/steamlang/compiler"
)

// sourceFiles returns the filesystem and paths to parse for input, which
// may be a single file or a directory of source files. Local inputs keep
// their relative path so diagnostics point at the path the user typed.
func sourceFiles(input string) (fs.FS, []string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, nil, err
	}

	root, name := ".", filepath.ToSlash(filepath.Clean(input))
	if !filepath.IsLocal(input) {
		if info.IsDir() {
			root, name = input, "."
		} else {
			root, name = filepath.Dir(input), filepath.Base(input)
		}
	}
	fsys := os.DirFS(root)

	if !info.IsDir() {
		return fsys, []string{name}, nil
	}
	paths, err := compiler.FindSources(fsys, name)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("No %s files found in %q", compiler.SourceExt, input)
	}
	return fsys, paths, nil
}

// loadSchema parses and compiles input, printing every diagnostic. The
// schema is nil if any error was reported.
func (sess *session) loadSchema(ctx context.Context, input string) *compiler.Schema {
	fsys, paths, err := sourceFiles(input)
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return nil
	}

	opts := compiler.NewCompileOptions(compiler.WithLogger(sess.log))
	parsed, err := opts.ParseFiles(ctx, fsys, paths)
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return nil
	}
	if len(parsed.Errors) > 0 {
		for _, err := range parsed.Errors {
			fmt.Fprintln(sess.stderr, err.Diagnostic())
		}
		return nil
	}

	result := opts.Compile(parsed.Files)
	for _, warn := range result.Warnings {
		fmt.Fprintln(sess.stderr, warn.Diagnostic())
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			fmt.Fprintln(sess.stderr, err.Diagnostic())
		}
		return nil
	}
	return result.Schema
}

// writeOutput writes data to path, or to stdout if path is empty or "-".
func (sess *session) writeOutput(path string, data []byte) int {
	if path == "" || path == "-" {
		if _, err := sess.stdout.Write(data); err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		return 0
	}
	if err := writeFileAtomic(path, data); err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}
	sess.log.Info("wrote output", zap.String("path", path), zap.Int("bytes", len(data)))
	return 0
}

// writeFileAtomic replaces the file at path with data. A reader of path
// sees either the old content or the new content, never a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpPath, 0o644)
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpPath, path)
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, writeErr)
	}
	return nil
}
