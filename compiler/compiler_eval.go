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
	"iter"
	"math/big"
	"math/bits"

	"go.steamlang.org/steamlang/syntax"
)

type memberSetDecl interface {
	syntax.Decl
	Base() *syntax.Ident
	Members() iter.Seq[*syntax.Member]
	MemberCount() int
}

type maskMember struct {
	name string
	bits uint64
	span syntax.Span
}

// compileMemberSet evaluates the members of an enum or flags declaration in
// order. A member whose value could not be computed is recorded with a nil
// value so that references to it don't produce further errors.
func (c *compiler) compileMemberSet(info *declInfo) {
	node := info.node.(memberSetDecl)
	_, isFlags := node.(*syntax.Flags)

	enum := &Enum{
		Name:    info.name,
		IsFlags: isFlags,
		Base:    PrimitiveUint32,
		Source:  c.source(info),
		Ordinal: info.ordinal,
	}
	info.enum = enum
	info.values = make(map[string]*big.Int, node.MemberCount())

	if base := node.Base(); base != nil {
		p, ok := LookupPrimitive(base.Get())
		if !ok {
			if _, isDecl := c.ns.decls[base.Get()]; isDecl {
				c.err(info.file, errBaseTypeInvalid(info.name, base.Get(), base.Span()))
			} else {
				c.err(info.file, errTypeNotFound(base.Get(), base.Span()))
			}
		} else if !p.IsInteger() {
			c.err(info.file, errBaseTypeInvalid(info.name, base.Get(), base.Span()))
		} else {
			enum.Base = p
		}
	}
	if node.MemberCount() == 0 {
		c.warn(info.file, warnEmptyMemberSet(info.name, node.Name().Span()))
	}

	lo, hi := enum.Base.Range()
	namesByValue := make(map[uint64]string)
	var prev *big.Int
	var seenBits, declaredBits uint64
	var masks []maskMember

	for ii, member := range enumerate(node.Members()) {
		name := member.Name().Get()
		if _, conflict := info.values[name]; conflict {
			c.err(info.file, errMemberNameConflict(info.name, name, member.Name().Span()))
			continue
		}

		var value *big.Int
		var err *Error
		valueSpan := member.Name().Span()
		switch {
		case member.Value() != nil:
			valueSpan = member.Value().Span()
			value, err = evalExpr(info.name, info.values, member.Value())
		case isFlags:
			value = new(big.Int).Lsh(big.NewInt(1), uint(bits.Len64(seenBits)))
		case ii == 0:
			value = new(big.Int)
		case prev != nil:
			value = new(big.Int).Add(prev, big.NewInt(1))
		}
		if err != nil {
			c.err(info.file, err)
		}
		if value != nil && (value.Cmp(lo) < 0 || value.Cmp(hi) > 0) {
			c.err(info.file, errValueOutOfRange(value.String(), enum.Base, valueSpan))
			value = nil
		}

		info.values[name] = value
		prev = value
		if value == nil {
			continue
		}

		bitPattern := valueBits(value, enum.Base)
		seenBits |= bitPattern
		if isFlags {
			if bitPattern&(bitPattern-1) == 0 {
				declaredBits |= bitPattern
			} else {
				masks = append(masks, maskMember{name, bitPattern, valueSpan})
			}
		}
		if prevName, conflict := namesByValue[bitPattern]; conflict {
			c.err(info.file, errMemberValueConflict(
				info.name, name, prevName,
				enum.Base.FormatValue(bitPattern),
				valueSpan,
			))
			continue
		}
		namesByValue[bitPattern] = name
		enum.Members = append(enum.Members, &Member{
			Name:  name,
			Value: bitPattern,
		})
	}

	for _, mask := range masks {
		if undeclared := mask.bits &^ declaredBits; undeclared != 0 {
			c.err(info.file, errFlagsMaskUndeclaredBits(
				info.name, mask.name, undeclared, mask.span,
			))
		}
	}
}

func enumerate[T any](seq iter.Seq[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		ii := 0
		for v := range seq {
			if !yield(ii, v) {
				return
			}
			ii += 1
		}
	}
}

// valueBits returns the two's complement representation of value, truncated
// to the width of base. The value must be within the range of base.
func valueBits(value *big.Int, base Primitive) uint64 {
	if value.Sign() >= 0 {
		return value.Uint64()
	}
	return uint64(value.Int64()) & base.Mask()
}

// evalExpr computes the value of a member expression. Identifiers name
// earlier members of the same declaration. A nil value without an error
// means the expression depends on a member that already failed.
func evalExpr(
	declName string,
	values map[string]*big.Int,
	expr syntax.Expr,
) (*big.Int, *Error) {
	switch expr := expr.(type) {
	case *syntax.Ident:
		value, ok := values[expr.Get()]
		if !ok {
			return nil, errMemberNotFound(declName, expr.Get(), expr.Span())
		}
		return value, nil
	case *syntax.ParenExpr:
		return evalExpr(declName, values, expr.Inner())
	case *syntax.UnaryExpr:
		x, err := evalExpr(declName, values, expr.Operand())
		if x == nil {
			return nil, err
		}
		value, _ := expr.Op().Apply(x, nil)
		return value, nil
	case *syntax.BinaryExpr:
		x, err := evalExpr(declName, values, expr.Left())
		if x == nil {
			return nil, err
		}
		y, err := evalExpr(declName, values, expr.Right())
		if y == nil {
			return nil, err
		}
		value, ok := expr.Op().Apply(x, y)
		if !ok {
			return nil, errShiftOutOfRange(y.String(), expr.Right().Span())
		}
		return value, nil
	}
	if value, ok := syntax.ConstValue(expr); ok {
		return value, nil
	}
	panic("unreachable")
}
