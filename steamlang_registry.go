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

package steamlang

import (
	"maps"
	"slices"
)

// Entry associates a dispatch code with the decoder of one message type.
type Entry[M any] struct {
	Code   uint32
	Name   string
	Decode func(buf []uint8) (M, error)
}

// Registry maps dispatch codes to decoders. It is never modified after
// construction.
type Registry[M any] struct {
	entries map[uint32]Entry[M]
}

func NewRegistry[M any](entries ...Entry[M]) (*Registry[M], error) {
	byCode := make(map[uint32]Entry[M], len(entries))
	for _, entry := range entries {
		if prev, conflict := byCode[entry.Code]; conflict {
			return nil, &DuplicateCodeError{
				Code:   entry.Code,
				First:  prev.Name,
				Second: entry.Name,
			}
		}
		byCode[entry.Code] = entry
	}
	return &Registry[M]{entries: byCode}, nil
}

// MustRegistry is like [NewRegistry] but panics on a duplicate code. It is
// meant for package-level registries in generated code, whose codes were
// already checked by the compiler.
func MustRegistry[M any](entries ...Entry[M]) *Registry[M] {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Decode decodes buf as the message registered for code.
func (r *Registry[M]) Decode(code uint32, buf []uint8) (M, error) {
	entry, ok := r.entries[code]
	if !ok {
		var zero M
		return zero, &UnknownOpCodeError{Code: code}
	}
	return entry.Decode(buf)
}

func (r *Registry[M]) Lookup(code uint32) (Entry[M], bool) {
	entry, ok := r.entries[code]
	return entry, ok
}

func (r *Registry[M]) Len() int {
	return len(r.entries)
}

// Codes returns every registered code in ascending order.
func (r *Registry[M]) Codes() []uint32 {
	return slices.Sorted(maps.Keys(r.entries))
}

// DecodeFunc returns a decoder for registry entries of message type *T.
// The pointer type must implement M.
func DecodeFunc[M any, T any, P interface {
	*T
	Codec
}]() func(buf []uint8) (M, error) {
	return func(buf []uint8) (M, error) {
		msg := P(new(T))
		if err := msg.Decode(buf); err != nil {
			var zero M
			return zero, err
		}
		return any(msg).(M), nil
	}
}
