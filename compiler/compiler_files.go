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

package compiler

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.steamlang.org/steamlang/syntax"
)

// SourceExt is the file extension of steamlang source files.
const SourceExt = ".steamd"

// FindSources returns the paths of every source file beneath root, in
// lexical order.
func FindSources(fsys fs.FS, root string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, SourceExt) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

type ParseResult struct {
	// Files are sorted by path.
	Files  []*syntax.File
	Errors []*Error
}

type pendingFile struct {
	path     string
	importer *syntax.File
	node     *syntax.Import
}

type parsedFile struct {
	file *syntax.File
	err  *Error
}

// ParseFiles parses the files at paths and every file they import. Imports
// are resolved relative to the importing file. Files are parsed
// concurrently in waves: each wave parses the imports newly discovered by
// the previous one.
//
// The returned error is non-nil only if ctx was cancelled.
func ParseFiles(
	ctx context.Context,
	fsys fs.FS,
	paths []string,
	opts ...CompileOption,
) (ParseResult, error) {
	return NewCompileOptions(opts...).ParseFiles(ctx, fsys, paths)
}

func (opts *CompileOptions) ParseFiles(
	ctx context.Context,
	fsys fs.FS,
	paths []string,
) (ParseResult, error) {
	log := opts.log()
	seen := make(map[string]struct{})
	var wave []pendingFile
	for _, p := range paths {
		p = path.Clean(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		wave = append(wave, pendingFile{path: p})
	}

	var result ParseResult
	for waveNum := 0; len(wave) > 0; waveNum++ {
		parsed := make([]parsedFile, len(wave))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.limit())
		for ii, pending := range wave {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				parsed[ii] = parseFile(fsys, pending)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return ParseResult{}, err
		}
		log.Debug("parsed files",
			zap.Int("wave", waveNum),
			zap.Int("files", len(wave)),
		)

		var next []pendingFile
		for _, p := range parsed {
			if p.err != nil {
				result.Errors = append(result.Errors, p.err)
				continue
			}
			result.Files = append(result.Files, p.file)
			for imp := range p.file.Imports() {
				target := path.Join(path.Dir(p.file.Path()), imp.Path().Get())
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				next = append(next, pendingFile{
					path:     target,
					importer: p.file,
					node:     imp,
				})
			}
		}
		wave = next
	}

	slices.SortFunc(result.Files, func(a, b *syntax.File) int {
		return strings.Compare(a.Path(), b.Path())
	})
	sortErrors(result.Errors)
	log.Info("parsed compilation unit",
		zap.Int("files", len(result.Files)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func parseFile(fsys fs.FS, pending pendingFile) parsedFile {
	src, err := fs.ReadFile(fsys, pending.path)
	if err != nil {
		if pending.importer == nil {
			return parsedFile{err: errReadFile(pending.path, err)}
		}
		importPath := pending.node.Path()
		return parsedFile{
			err: errImportNotFound(importPath.Get(), err, importPath.Span()).locate(pending.importer),
		}
	}
	file, err := syntax.Parse(src, syntax.WithPath(pending.path))
	if err != nil {
		var synErr *syntax.Error
		if !errors.As(err, &synErr) {
			return parsedFile{err: errReadFile(pending.path, err)}
		}
		return parsedFile{
			err: fromSyntaxError(pending.path, syntax.NewLines(src), synErr),
		}
	}
	return parsedFile{file: file}
}
