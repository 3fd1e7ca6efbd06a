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

// Package compiler resolves parsed steamlang files into a [Schema].
//
// Compilation runs in two passes. The collection pass registers every
// declaration of the compilation unit in a [Namespace]. The resolution pass
// evaluates member values, resolves field types, computes message layouts
// and validates dispatch codes. Every error found is reported; a result with
// errors has no schema.
package compiler

import (
	"cmp"
	"iter"
	"math"
	"math/big"
	"runtime"
	"slices"

	"go.uber.org/zap"

	"go.steamlang.org/steamlang/syntax"
)

const (
	maxArrayLen    = math.MaxUint16
	maxMessageSize = math.MaxInt32
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	logger      *zap.Logger
	concurrency int
}

// WithLogger sets the logger that receives operational events. The default
// discards them.
func WithLogger(logger *zap.Logger) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.logger = logger
	})
}

// WithConcurrency limits how many files [ParseFiles] parses at once. The
// default is GOMAXPROCS.
func WithConcurrency(n int) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.concurrency = n
	})
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) log() *zap.Logger {
	if opts.logger == nil {
		return zap.NewNop()
	}
	return opts.logger
}

func (opts *CompileOptions) limit() int {
	if opts.concurrency > 0 {
		return opts.concurrency
	}
	return runtime.GOMAXPROCS(0)
}

type CompileResult struct {
	Schema    *Schema
	Namespace *Namespace

	Errors   []*Error
	Warnings []*Warning
}

// Compile resolves files as a single compilation unit. Declarations are
// ordered by the position of their file in files, then by source position.
func Compile(files []*syntax.File, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(files)
}

func (opts *CompileOptions) Compile(files []*syntax.File) CompileResult {
	c := compiler{
		opts:  opts,
		log:   opts.log(),
		files: files,
		ns: &Namespace{
			decls: make(map[string]*declInfo),
		},
	}
	c.compileSchema()
	sortErrors(c.errors)
	sortWarnings(c.warnings)
	if len(c.errors) > 0 {
		return CompileResult{
			Namespace: c.ns,
			Errors:    c.errors,
			Warnings:  c.warnings,
		}
	}
	return CompileResult{
		Schema:    c.schema,
		Namespace: c.ns,
		Warnings:  c.warnings,
	}
}

// Namespace maps declaration names to their declarations. It is filled by
// the collection pass and read-only afterwards.
type Namespace struct {
	decls map[string]*declInfo
	order []*declInfo
}

func (ns *Namespace) Lookup(name string) (syntax.Decl, bool) {
	info, ok := ns.decls[name]
	if !ok {
		return nil, false
	}
	return info.node, true
}

// File returns the file declaring name.
func (ns *Namespace) File(name string) (*syntax.File, bool) {
	info, ok := ns.decls[name]
	if !ok {
		return nil, false
	}
	return info.file, true
}

func (ns *Namespace) Len() int {
	return len(ns.order)
}

// All returns every declaration in source order.
func (ns *Namespace) All() iter.Seq2[string, syntax.Decl] {
	return func(yield func(string, syntax.Decl) bool) {
		for _, info := range ns.order {
			if !yield(info.name, info.node) {
				return
			}
		}
	}
}

type layoutState uint8

const (
	layoutPending layoutState = iota
	layoutVisiting
	layoutDone
	layoutFailed
)

type declInfo struct {
	name    string
	file    *syntax.File
	node    syntax.Decl
	ordinal int

	// Enums and flags.
	enum   *Enum
	values map[string]*big.Int

	// Messages.
	message    *Message
	fieldNodes []*syntax.Field
	lastField  *syntax.Field
	layout     layoutState
}

type compiler struct {
	opts  *CompileOptions
	log   *zap.Logger
	files []*syntax.File
	ns    *Namespace

	schema   *Schema
	dispatch []*DispatchEntry

	errors   []*Error
	warnings []*Warning
}

func (c *compiler) err(file *syntax.File, err *Error) {
	c.errors = append(c.errors, err.locate(file))
}

func (c *compiler) warn(file *syntax.File, w *Warning) {
	c.warnings = append(c.warnings, w.locate(file))
}

func (c *compiler) compileSchema() {
	c.registerDecls()

	for _, info := range c.ns.order {
		switch info.node.(type) {
		case *syntax.Enum, *syntax.Flags:
			c.compileMemberSet(info)
		}
	}
	for _, info := range c.ns.order {
		if _, ok := info.node.(*syntax.Message); ok {
			c.compileMessage(info)
		}
	}
	for _, info := range c.ns.order {
		if info.message != nil {
			c.layoutMessage(info, nil)
		}
	}
	c.compileDispatch()

	schema := &Schema{}
	for _, file := range c.files {
		schema.Files = append(schema.Files, file.Path())
	}
	for _, info := range c.ns.order {
		if info.enum != nil {
			schema.Enums = append(schema.Enums, info.enum)
		}
		if info.message != nil {
			schema.Messages = append(schema.Messages, info.message)
		}
	}
	schema.Dispatch = c.dispatch
	c.schema = schema

	c.log.Debug("resolved declarations",
		zap.Int("files", len(c.files)),
		zap.Int("enums", len(schema.Enums)),
		zap.Int("messages", len(schema.Messages)),
		zap.Int("dispatch_codes", len(schema.Dispatch)),
		zap.Int("errors", len(c.errors)),
	)
}

func (c *compiler) registerDecls() {
	ordinal := 0
	for _, file := range c.files {
		for decl := range file.Decls() {
			name := decl.Name().Get()
			if prev, conflict := c.ns.decls[name]; conflict {
				c.err(file, errDeclNameConflict(prev.node, prev.file, decl))
				continue
			}
			if _, isPrimitive := LookupPrimitive(name); isPrimitive {
				c.warn(file, warnDeclShadowsPrimitive(name, decl.Name().Span()))
			}
			info := &declInfo{
				name:    name,
				file:    file,
				node:    decl,
				ordinal: ordinal,
			}
			ordinal += 1
			c.ns.decls[name] = info
			c.ns.order = append(c.ns.order, info)
		}
	}
}

func (c *compiler) source(info *declInfo) Source {
	pos := info.file.Position(info.node.Name().Span().Start())
	return Source{
		File:   info.file.Path(),
		Line:   pos.Line,
		Column: pos.Column,
	}
}

func sortErrors(errs []*Error) {
	slices.SortStableFunc(errs, func(a, b *Error) int {
		if x := cmp.Compare(a.file, b.file); x != 0 {
			return x
		}
		if x := cmp.Compare(a.span.Start(), b.span.Start()); x != 0 {
			return x
		}
		return cmp.Compare(a.code, b.code)
	})
}

func sortWarnings(warnings []*Warning) {
	slices.SortStableFunc(warnings, func(a, b *Warning) int {
		if x := cmp.Compare(a.file, b.file); x != 0 {
			return x
		}
		return cmp.Compare(a.span.Start(), b.span.Start())
	})
}
