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
	"math"
	"math/big"

	"go.steamlang.org/steamlang/syntax"
)

func (c *compiler) compileDispatch() {
	messagesByCode := make(map[uint32]*declInfo)
	for _, info := range c.ns.order {
		node, ok := info.node.(*syntax.Message)
		if !ok || node.Code() == nil || info.message == nil {
			continue
		}
		code, ok := c.resolveDispatchCode(info, node.Code())
		if !ok {
			continue
		}
		info.message.Code = code
		if prev, conflict := messagesByCode[code.Value]; conflict {
			c.err(info.file, errDispatchCodeConflict(
				code.Value, info.name, prev.name, node.Code().Span(),
			))
			continue
		}
		messagesByCode[code.Value] = info
		c.dispatch = append(c.dispatch, &DispatchEntry{
			Code:    code.Value,
			Message: info.name,
		})
	}
}

func (c *compiler) resolveDispatchCode(
	info *declInfo,
	node *syntax.DispatchCode,
) (*DispatchCode, bool) {
	if lit := node.Literal(); lit != nil {
		if lit.Get() > math.MaxUint32 {
			c.err(info.file, errDispatchCodeOutOfRange(lit.Raw(), lit.Span()))
			return nil, false
		}
		return &DispatchCode{Value: uint32(lit.Get())}, true
	}

	enumIdent, memberIdent := node.EnumMember()
	dep, ok := c.ns.decls[enumIdent.Get()]
	if !ok {
		c.err(info.file, errTypeNotFound(enumIdent.Get(), enumIdent.Span()))
		return nil, false
	}
	if _, isEnum := dep.node.(*syntax.Enum); !isEnum {
		c.err(info.file, errDispatchNotEnum(enumIdent.Get(), dep.node, enumIdent.Span()))
		return nil, false
	}
	value, ok := dep.values[memberIdent.Get()]
	if !ok {
		c.err(info.file, errMemberNotFound(dep.name, memberIdent.Get(), memberIdent.Span()))
		return nil, false
	}
	if value == nil {
		return nil, false
	}
	if value.Sign() < 0 || value.Cmp(big.NewInt(math.MaxUint32)) > 0 {
		c.err(info.file, errDispatchCodeOutOfRange(value.String(), node.Span()))
		return nil, false
	}
	return &DispatchCode{
		Value:  uint32(value.Uint64()),
		Enum:   dep.name,
		Member: memberIdent.Get(),
	}, true
}
