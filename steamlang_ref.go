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

// Ref is an out-of-line reference to a value of type T, as produced by a
// `boxed` field. Only the reference ID is carried on the wire; locating the
// referenced value is up to the caller. The zero ID is a nil reference.
type Ref[T any] struct {
	ID uint64
}

func (Ref[T]) SizeHint() int {
	return RefSize
}

func (ref Ref[T]) IsNil() bool {
	return ref.ID == 0
}

func (ref Ref[T]) AppendTo(buf []uint8) []uint8 {
	return AppendUint64(buf, ref.ID)
}

func (ref *Ref[T]) DecodeFrom(r *Reader) {
	ref.ID = r.Uint64()
}
