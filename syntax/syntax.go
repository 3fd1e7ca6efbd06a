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

// Package syntax implements the lexer and parser of the steamlang schema
// language.
package syntax

import (
	"math/big"
)

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOption func(*ParseOptions)

func (fn parseOption) apply(opts *ParseOptions) {
	fn(opts)
}

// WithPath sets the path reported by [File.Path].
func WithPath(path string) ParseOption {
	return parseOption(func(opts *ParseOptions) {
		opts.path = path
	})
}

func Parse(src []uint8, opts ...ParseOption) (*File, error) {
	return NewParseOptions(opts...).ParseFile(src)
}

type ParseOptions struct {
	path string
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

// ParseFile parses a complete source file. On error no partial tree is
// returned.
func (opts *ParseOptions) ParseFile(src []uint8) (*File, error) {
	ctx, err := newParseCtx[File](src)
	if err != nil {
		return nil, err
	}
	return parseFile(ctx, opts, src)
}

type scanner struct {
	src        []uint8
	tokens     *Tokens
	haveToken  bool
	token      Token
	tokenStart uint32
	consumed   uint32
	err        error
}

type parseCtx[T any] struct {
	s          *scanner
	childNodes []Node
	started    bool
	start      uint32
	end        uint32
}

func newParseCtx[T any](src []uint8) (*parseCtx[T], error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx[T]{
		s: &scanner{
			src:    src,
			tokens: tokens,
		},
	}, nil
}

func (ctx *parseCtx[T]) setErr(err error) {
	if ctx.s.err == nil {
		ctx.s.err = err
	}
}

// ensureToken reads the next significant token, discarding whitespace and
// comments.
func (ctx *parseCtx[T]) ensureToken() error {
	s := ctx.s
	if s.err != nil {
		return s.err
	}
	if s.haveToken {
		return nil
	}
	for {
		start := s.tokens.Offset()
		if err := s.tokens.Next(&s.token); err != nil {
			s.err = err
			return err
		}
		if !s.token.Kind.isTrivia() {
			s.tokenStart = start
			s.haveToken = true
			return nil
		}
	}
}

func (ctx *parseCtx[T]) tokenKind() TokenKind {
	if err := ctx.ensureToken(); err != nil {
		return T_EOF
	}
	return ctx.s.token.Kind
}

func (ctx *parseCtx[T]) readToken() []uint8 {
	s := ctx.s
	return s.src[s.tokenStart : s.tokenStart+uint32(s.token.Len)]
}

func (ctx *parseCtx[T]) consumeToken(child Node) {
	s := ctx.s
	if !ctx.started {
		ctx.started = true
		ctx.start = s.tokenStart
	}
	ctx.end = s.tokenStart + uint32(s.token.Len)
	s.consumed += 1
	s.haveToken = false
	if child != nil {
		ctx.childNodes = append(ctx.childNodes, child)
	}
}

func (ctx *parseCtx[T]) tokenSpan() Span {
	return Span{
		start: ctx.s.tokenStart,
		len:   uint32(ctx.s.token.Len),
	}
}

func (ctx *parseCtx[T]) loop(yield func(struct{}) bool) {
	if ctx.s.err != nil {
		return
	}
	for {
		consumed := ctx.s.consumed
		if !yield(struct{}{}) {
			return
		}
		if ctx.s.err != nil {
			return
		}
		if consumed == ctx.s.consumed {
			return
		}
	}
}

func (ctx *parseCtx[T]) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.s.token.Kind != kind {
		ctx.setErr(errExpectedSigil(
			kind,
			ctx.s.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		))
		return
	}
	ctx.consumeToken(nil)
}

func (ctx *parseCtx[T]) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.s.token.Kind != kind {
		return false
	}
	ctx.consumeToken(nil)
	return true
}

func (ctx *parseCtx[T]) tryKeyword(keyword string) bool {
	return ctx.tryKeywordNode(keyword) != nil
}

func (ctx *parseCtx[T]) tryKeywordNode(keyword string) *Keyword {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.s.token.Kind != T_IDENT {
		return nil
	}
	if string(ctx.readToken()) != keyword {
		return nil
	}
	node := &Keyword{
		raw:   keyword,
		start: ctx.s.tokenStart,
	}
	ctx.consumeToken(node)
	return node
}

func (ctx *parseCtx[T]) ident() *Ident {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.s.token.Kind != T_IDENT {
		ctx.setErr(errExpectedIdent(ctx.s.token.Kind, token, ctx.tokenSpan()))
		return nil
	}
	ident := &Ident{
		raw:   token,
		start: ctx.s.tokenStart,
	}
	ctx.consumeToken(ident)
	return ident
}

func (ctx *parseCtx[T]) int() *IntLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	switch ctx.s.token.Kind {
	case T_INT_LIT, T_HEX_INT_LIT:
	default:
		ctx.setErr(errExpectedIntLit(ctx.s.token.Kind, token, ctx.tokenSpan()))
		return nil
	}

	intNode, err := newIntLit(token, ctx.s.tokenStart)
	if err != nil {
		ctx.setErr(err)
		return nil
	}
	ctx.consumeToken(intNode)
	return intNode
}

func (ctx *parseCtx[T]) text() *TextLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	if ctx.s.token.Kind != T_TEXT_LIT {
		ctx.setErr(errExpectedTextLit(ctx.s.token.Kind, token, ctx.tokenSpan()))
		return nil
	}
	textNode, err := newTextLit(token, ctx.s.tokenStart, ctx.s.token.flags)
	if err != nil {
		ctx.setErr(err)
		return nil
	}
	ctx.consumeToken(textNode)
	return textNode
}

func (ctx *parseCtx[T]) finish(
	build func(span Span, childNodes []Node) *T,
) (*T, error) {
	if ctx.s.err != nil {
		return nil, ctx.s.err
	}
	span := Span{
		start: ctx.start,
		len:   ctx.end - ctx.start,
	}
	return build(span, ctx.childNodes), nil
}

func parseChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, bool) {
	if ctx.s.err != nil {
		return nil, false
	}
	childCtx := &parseCtx[C]{s: ctx.s}
	child, err := parseChildFn(childCtx)
	if err != nil {
		ctx.setErr(err)
		return nil, false
	}
	if child == nil || !childCtx.started {
		return nil, false
	}

	if !ctx.started {
		ctx.started = true
		ctx.start = childCtx.start
	}
	ctx.end = childCtx.end
	ctx.childNodes = append(ctx.childNodes, child)
	return (*C)(child), true
}

func parseFile(ctx *parseCtx[File], opts *ParseOptions, src []uint8) (*File, error) {
	var imports []*Import
	var decls []Decl
	for _ = range ctx.loop {
		if ctx.tokenKind() == T_EOF {
			break
		}

		if imp, ok := parseChild(ctx, parseImport); ok {
			if len(decls) > 0 {
				ctx.setErr(errImportAfterDeclaration(imp.Span()))
				break
			}
			imports = append(imports, imp)
			continue
		}

		var decl Decl
		var ok bool
		if decl, ok = parseChild(ctx, parseEnum); !ok && ctx.s.err == nil {
			if decl, ok = parseChild(ctx, parseFlags); !ok && ctx.s.err == nil {
				decl, ok = parseChild(ctx, parseMessage)
			}
		}
		if ctx.s.err != nil {
			break
		}
		if !ok {
			token := string(ctx.readToken())
			span := ctx.tokenSpan()
			if ctx.s.token.Kind == T_IDENT {
				ctx.setErr(errUnknownDeclaration(token, span))
			} else {
				ctx.setErr(errExpectedDeclaration(ctx.s.token.Kind, token, span))
			}
			break
		}
		decls = append(decls, decl)
	}

	return ctx.finish(func(span Span, childNodes []Node) *File {
		return &File{
			branchNode: branchNode{span, childNodes},
			path:       opts.path,
			lines:      NewLines(src),
			imports:    imports,
			decls:      decls,
		}
	})
}

func parseImport(ctx *parseCtx[Import]) (*Import, error) {
	if !ctx.tryKeyword("import") {
		return nil, nil
	}
	path := ctx.text()
	ctx.sigil(T_SEMICOLON)

	return ctx.finish(func(span Span, childNodes []Node) *Import {
		return &Import{
			branchNode: branchNode{span, childNodes},
			path:       path,
		}
	})
}

func parseEnum(ctx *parseCtx[Enum]) (*Enum, error) {
	if !ctx.tryKeyword("enum") {
		return nil, nil
	}
	body := parseMemberSet(ctx)

	return ctx.finish(func(span Span, childNodes []Node) *Enum {
		body.branchNode = branchNode{span, childNodes}
		return &Enum{body}
	})
}

func parseFlags(ctx *parseCtx[Flags]) (*Flags, error) {
	if !ctx.tryKeyword("flags") {
		return nil, nil
	}
	body := parseMemberSet(ctx)

	return ctx.finish(func(span Span, childNodes []Node) *Flags {
		body.branchNode = branchNode{span, childNodes}
		return &Flags{body}
	})
}

func parseMemberSet[T any](ctx *parseCtx[T]) memberSet {
	var body memberSet
	body.name = ctx.ident()
	if ctx.trySigil(T_COLON) {
		body.base = ctx.ident()
	}

	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		member, _ := parseChild(ctx, parseMember)
		body.members = append(body.members, member)
	}
	ctx.trySigil(T_SEMICOLON)
	return body
}

func parseMember(ctx *parseCtx[Member]) (*Member, error) {
	name := ctx.ident()
	var value Expr
	if ctx.trySigil(T_EQ) {
		value = parseExpr(ctx)
	}
	ctx.sigil(T_SEMICOLON)

	return ctx.finish(func(span Span, childNodes []Node) *Member {
		return &Member{
			branchNode: branchNode{span, childNodes},
			name:       name,
			value:      value,
		}
	})
}

// parseExpr parses a value expression. Literal leaves are appended to
// ctx.childNodes as they are read; they are replaced by the root of the
// expression tree once it is complete.
func parseExpr[T any](ctx *parseCtx[T]) Expr {
	mark := len(ctx.childNodes)
	expr := parseOrExpr(ctx)
	if ctx.s.err != nil {
		return nil
	}
	ctx.childNodes = append(ctx.childNodes[:mark], expr)
	return expr
}

func parseOrExpr[T any](ctx *parseCtx[T]) Expr {
	left := parseShiftExpr(ctx)
	for ctx.s.err == nil && ctx.trySigil(T_PIPE) {
		right := parseShiftExpr(ctx)
		if ctx.s.err != nil {
			return nil
		}
		left = newBinaryExpr(OpOr, left, right)
	}
	return left
}

func parseShiftExpr[T any](ctx *parseCtx[T]) Expr {
	left := parseUnaryExpr(ctx)
	if ctx.s.err == nil && ctx.trySigil(T_SHL) {
		right := parseUnaryExpr(ctx)
		if ctx.s.err != nil {
			return nil
		}
		left = newBinaryExpr(OpShl, left, right)
	}
	return left
}

func parseUnaryExpr[T any](ctx *parseCtx[T]) Expr {
	if ctx.tokenKind() != T_MINUS {
		return parsePrimaryExpr(ctx)
	}
	opSpan := ctx.tokenSpan()
	ctx.consumeToken(nil)
	operand := parsePrimaryExpr(ctx)
	if ctx.s.err != nil {
		return nil
	}
	return foldExpr(&UnaryExpr{
		branchNode: branchNode{
			span:       spanBetween(opSpan, operand.Span()),
			childNodes: []Node{operand},
		},
		op:      OpNeg,
		operand: operand,
	})
}

func parsePrimaryExpr[T any](ctx *parseCtx[T]) Expr {
	switch ctx.tokenKind() {
	case T_INT_LIT, T_HEX_INT_LIT:
		if lit := ctx.int(); lit != nil {
			return lit
		}
		return nil
	case T_IDENT:
		if ident := ctx.ident(); ident != nil {
			return ident
		}
		return nil
	case T_OPEN_PAREN:
		openSpan := ctx.tokenSpan()
		ctx.consumeToken(nil)
		inner := parseOrExpr(ctx)
		if ctx.s.err != nil {
			return nil
		}
		closeSpan := ctx.tokenSpan()
		ctx.sigil(T_CLOSE_PAREN)
		if ctx.s.err != nil {
			return nil
		}
		return &ParenExpr{
			branchNode: branchNode{
				span:       spanBetween(openSpan, closeSpan),
				childNodes: []Node{inner},
			},
			inner: inner,
		}
	}
	if ctx.s.err == nil {
		ctx.setErr(errExpectedExpr(
			ctx.s.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		))
	}
	return nil
}

func newBinaryExpr(op Operator, left, right Expr) Expr {
	return foldExpr(&BinaryExpr{
		branchNode: branchNode{
			span:       spanBetween(left.Span(), right.Span()),
			childNodes: []Node{left, right},
		},
		op:    op,
		left:  left,
		right: right,
	})
}

// foldExpr replaces an operation on constant operands with its value.
func foldExpr(expr Expr) Expr {
	var value *big.Int
	var ok bool
	switch e := expr.(type) {
	case *UnaryExpr:
		x, xok := ConstValue(e.operand)
		if !xok {
			return expr
		}
		value, ok = e.op.Apply(x, nil)
	case *BinaryExpr:
		x, xok := ConstValue(e.left)
		y, yok := ConstValue(e.right)
		if !xok || !yok {
			return expr
		}
		value, ok = e.op.Apply(x, y)
	}
	if !ok {
		return expr
	}
	return &ConstExpr{
		branchNode: branchNode{
			span:       expr.Span(),
			childNodes: []Node{expr},
		},
		value: value,
	}
}

func parseMessage(ctx *parseCtx[Message]) (*Message, error) {
	if !ctx.tryKeyword("message") {
		return nil, nil
	}
	name := ctx.ident()

	var code *DispatchCode
	if ctx.trySigil(T_LT) {
		code, _ = parseChild(ctx, parseDispatchCode)
		ctx.sigil(T_GT)
	}

	var fields []*Field
	ctx.sigil(T_OPEN_CURL)
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		field, _ := parseChild(ctx, parseField)
		fields = append(fields, field)
	}
	ctx.trySigil(T_SEMICOLON)

	return ctx.finish(func(span Span, childNodes []Node) *Message {
		return &Message{
			branchNode: branchNode{span, childNodes},
			name:       name,
			code:       code,
			fields:     fields,
		}
	})
}

func parseDispatchCode(ctx *parseCtx[DispatchCode]) (*DispatchCode, error) {
	var literal *IntLit
	var enum, member *Ident
	switch ctx.tokenKind() {
	case T_INT_LIT, T_HEX_INT_LIT:
		literal = ctx.int()
	case T_IDENT:
		enum = ctx.ident()
		ctx.sigil(T_DOT)
		member = ctx.ident()
	default:
		if ctx.s.err != nil {
			return nil, ctx.s.err
		}
		return nil, errExpectedDispatchCode(
			ctx.s.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}

	return ctx.finish(func(span Span, childNodes []Node) *DispatchCode {
		return &DispatchCode{
			branchNode: branchNode{span, childNodes},
			literal:    literal,
			enum:       enum,
			member:     member,
		}
	})
}

func parseField(ctx *parseCtx[Field]) (*Field, error) {
	boxed := ctx.tryKeywordNode("boxed")
	typeName := ctx.ident()
	name := ctx.ident()

	isArray := false
	var arrayLen *IntLit
	if ctx.trySigil(T_OPEN_SQUARE) {
		isArray = true
		if !ctx.trySigil(T_CLOSE_SQUARE) {
			arrayLen = ctx.int()
			ctx.sigil(T_CLOSE_SQUARE)
		}
	}
	ctx.sigil(T_SEMICOLON)

	return ctx.finish(func(span Span, childNodes []Node) *Field {
		return &Field{
			branchNode: branchNode{span, childNodes},
			boxed:      boxed,
			typeName:   typeName,
			name:       name,
			isArray:    isArray,
			arrayLen:   arrayLen,
		}
	})
}
