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

package syntax

import (
	"iter"
	"math/big"
	"slices"
	"strconv"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

func spanBetween(first, last Span) Span {
	return Span{
		start: first.start,
		len:   last.End() - first.start,
	}
}

type Node interface {
	Span() Span

	ChildNodes() iter.Seq[Node]

	privChildren() []Node
}

// Walk visits node and its descendants in source order. If walkFn returns
// false the children of that node are skipped. After the children of a node
// have been visited, walkFn is called with nil.
func Walk(node Node, walkFn func(Node) bool) {
	if node == nil || !walkFn(node) {
		return
	}
	for _, child := range node.privChildren() {
		Walk(child, walkFn)
	}
	walkFn(nil)
}

func iterChildren(childNodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes {
			if !yield(child) {
				return
			}
		}
	}
}

type leafNode struct{}

func (*leafNode) ChildNodes() iter.Seq[Node] {
	return func(_yield func(Node) bool) {}
}

func (*leafNode) privChildren() []Node {
	return nil
}

type branchNode struct {
	span       Span
	childNodes []Node
}

func (n *branchNode) Span() Span {
	return n.span
}

func (n *branchNode) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *branchNode) privChildren() []Node {
	return n.childNodes
}

// Expr is a member value expression.
type Expr interface {
	Node
	isExpr()
}

// Decl is a top-level declaration: one of [*Enum], [*Flags] or [*Message].
type Decl interface {
	Node
	Name() *Ident
	isDecl()
}

type Ident struct {
	leafNode
	raw   string
	start uint32
}

var (
	_ Node = (*Ident)(nil)
	_ Expr = (*Ident)(nil)
)

func (n *Ident) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Ident) Get() string {
	return n.raw
}

func (*Ident) isExpr() {}

type Keyword struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Keyword)(nil)

func (n *Keyword) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Keyword) Get() string {
	return n.raw
}

type IntLit struct {
	leafNode
	raw   string
	value uint64
	start uint32
}

var (
	_ Node = (*IntLit)(nil)
	_ Expr = (*IntLit)(nil)
)

func (n *IntLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func newIntLit(token string, start uint32) (*IntLit, error) {
	value, err := strconv.ParseUint(token, 0, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return nil, errIntLitTooPositive(token, start)
		}
		return nil, errIntLitInvalid(start, []byte(token))
	}
	return &IntLit{
		raw:   token,
		value: value,
		start: start,
	}, nil
}

func (n *IntLit) Get() uint64 {
	return n.value
}

// Raw returns the literal as written, including any prefix or separators.
func (n *IntLit) Raw() string {
	return n.raw
}

func (*IntLit) isExpr() {}

type TextLit struct {
	leafNode
	raw   string
	value string
	start uint32
}

var _ Node = (*TextLit)(nil)

func (n *TextLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func newTextLit(token string, start uint32, flags uint8) (*TextLit, error) {
	if flags&tokenFlagTextHasNoEscapes != 0 {
		return &TextLit{
			raw:   token,
			value: token[1 : len(token)-1],
			start: start,
		}, nil
	}
	value, err := strconv.Unquote(token)
	if err != nil {
		return nil, errTextLitInvalid(start, token)
	}
	return &TextLit{
		raw:   token,
		value: value,
		start: start,
	}, nil
}

func (n *TextLit) Get() string {
	return n.value
}

// Operator is an arithmetic operator of a member value expression.
type Operator uint8

const (
	OpNeg Operator = iota + 1
	OpOr
	OpShl
)

func (op Operator) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpOr:
		return "|"
	case OpShl:
		return "<<"
	}
	return "Operator(" + strconv.Itoa(int(op)) + ")"
}

// MaxShift is the largest shift amount accepted by [OpShl].
const MaxShift = 63

// Apply computes the operator's result. Unary operators ignore y. The result
// is false if the operation is undefined, i.e. a shift by a negative amount or
// by more than [MaxShift] bits.
func (op Operator) Apply(x, y *big.Int) (*big.Int, bool) {
	switch op {
	case OpNeg:
		return new(big.Int).Neg(x), true
	case OpOr:
		return new(big.Int).Or(x, y), true
	case OpShl:
		if !y.IsInt64() || y.Int64() < 0 || y.Int64() > MaxShift {
			return nil, false
		}
		return new(big.Int).Lsh(x, uint(y.Int64())), true
	}
	return nil, false
}

type UnaryExpr struct {
	branchNode
	op      Operator
	operand Expr
}

var _ Expr = (*UnaryExpr)(nil)

func (n *UnaryExpr) Op() Operator {
	return n.op
}

func (n *UnaryExpr) Operand() Expr {
	return n.operand
}

func (*UnaryExpr) isExpr() {}

type BinaryExpr struct {
	branchNode
	op          Operator
	left, right Expr
}

var _ Expr = (*BinaryExpr)(nil)

func (n *BinaryExpr) Op() Operator {
	return n.op
}

func (n *BinaryExpr) Left() Expr {
	return n.left
}

func (n *BinaryExpr) Right() Expr {
	return n.right
}

func (*BinaryExpr) isExpr() {}

type ParenExpr struct {
	branchNode
	inner Expr
}

var _ Expr = (*ParenExpr)(nil)

func (n *ParenExpr) Inner() Expr {
	return n.inner
}

func (*ParenExpr) isExpr() {}

// ConstExpr is an expression built only from literals, folded to its value
// at parse time. The original expression is kept as its only child.
type ConstExpr struct {
	branchNode
	value *big.Int
}

var _ Expr = (*ConstExpr)(nil)

func (n *ConstExpr) Value() *big.Int {
	return new(big.Int).Set(n.value)
}

func (n *ConstExpr) Original() Expr {
	return n.childNodes[0].(Expr)
}

func (*ConstExpr) isExpr() {}

// ConstValue returns the value of a literal or folded expression.
func ConstValue(expr Expr) (*big.Int, bool) {
	switch expr := expr.(type) {
	case *IntLit:
		return new(big.Int).SetUint64(expr.value), true
	case *ConstExpr:
		return expr.Value(), true
	case *ParenExpr:
		return ConstValue(expr.inner)
	}
	return nil, false
}

type File struct {
	branchNode
	path    string
	lines   *Lines
	imports []*Import
	decls   []Decl
}

var _ Node = (*File)(nil)

// Path returns the path passed through [WithPath], or "" if none.
func (n *File) Path() string {
	return n.path
}

func (n *File) Lines() *Lines {
	return n.lines
}

func (n *File) Position(offset uint32) Position {
	return n.lines.Position(offset)
}

func (n *File) Imports() iter.Seq[*Import] {
	return slices.Values(n.imports)
}

func (n *File) Decls() iter.Seq[Decl] {
	return slices.Values(n.decls)
}

type Import struct {
	branchNode
	path *TextLit
}

var _ Node = (*Import)(nil)

func (n *Import) Path() *TextLit {
	return n.path
}

type memberSet struct {
	branchNode
	name    *Ident
	base    *Ident
	members []*Member
}

func (n *memberSet) Name() *Ident {
	return n.name
}

// Base returns the declared base type, or nil if none was written.
func (n *memberSet) Base() *Ident {
	return n.base
}

func (n *memberSet) Members() iter.Seq[*Member] {
	return slices.Values(n.members)
}

func (n *memberSet) MemberCount() int {
	return len(n.members)
}

type Enum struct {
	memberSet
}

var _ Decl = (*Enum)(nil)

func (*Enum) isDecl() {}

type Flags struct {
	memberSet
}

var _ Decl = (*Flags)(nil)

func (*Flags) isDecl() {}

type Member struct {
	branchNode
	name  *Ident
	value Expr
}

var _ Node = (*Member)(nil)

func (n *Member) Name() *Ident {
	return n.name
}

// Value returns the member's value expression, or nil if the value is
// assigned implicitly.
func (n *Member) Value() Expr {
	return n.value
}

type Message struct {
	branchNode
	name   *Ident
	code   *DispatchCode
	fields []*Field
}

var _ Decl = (*Message)(nil)

func (n *Message) Name() *Ident {
	return n.name
}

// Code returns the message's dispatch code, or nil if it has none.
func (n *Message) Code() *DispatchCode {
	return n.code
}

func (n *Message) Fields() iter.Seq[*Field] {
	return slices.Values(n.fields)
}

func (n *Message) FieldCount() int {
	return len(n.fields)
}

func (*Message) isDecl() {}

// DispatchCode is either an integer literal or a reference to an enum member.
type DispatchCode struct {
	branchNode
	literal *IntLit
	enum    *Ident
	member  *Ident
}

var _ Node = (*DispatchCode)(nil)

func (n *DispatchCode) Literal() *IntLit {
	return n.literal
}

func (n *DispatchCode) EnumMember() (*Ident, *Ident) {
	return n.enum, n.member
}

type Field struct {
	branchNode
	boxed    *Keyword
	typeName *Ident
	name     *Ident
	isArray  bool
	arrayLen *IntLit
}

var _ Node = (*Field)(nil)

func (n *Field) IsBoxed() bool {
	return n.boxed != nil
}

func (n *Field) TypeName() *Ident {
	return n.typeName
}

func (n *Field) Name() *Ident {
	return n.name
}

func (n *Field) IsArray() bool {
	return n.isArray
}

// ArrayLen returns the fixed array length, or nil for an open array.
func (n *Field) ArrayLen() *IntLit {
	return n.arrayLen
}
