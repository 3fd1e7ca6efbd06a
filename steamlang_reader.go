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
	"bytes"
	"encoding/binary"
)

// Reader consumes little-endian values from a byte buffer.
//
// The first short read records a [TruncatedInputError]; every later read
// returns a zero value without touching the buffer. Callers check Err once
// after decoding.
type Reader struct {
	buf []uint8
	off int
	err error
}

func NewReader(buf []uint8) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Err() error {
	return r.err
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(n int) []uint8 {
	if r.err != nil {
		return nil
	}
	if avail := len(r.buf) - r.off; n > avail {
		r.err = &TruncatedInputError{
			Offset: r.off,
			Need:   n,
			Have:   avail,
		}
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *Reader) Bool() bool {
	if b := r.take(1); b != nil {
		return b[0] != 0
	}
	return false
}

func (r *Reader) Uint8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *Reader) Int8() int8 {
	return int8(r.Uint8())
}

func (r *Reader) Uint16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Uint32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Uint64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *Reader) Int64() int64 {
	return int64(r.Uint64())
}

// Bytes fills dst with the next len(dst) bytes.
func (r *Reader) Bytes(dst []uint8) {
	if b := r.take(len(dst)); b != nil {
		copy(dst, b)
	}
}

// Rest consumes and returns a copy of every unread byte, or nil if none
// remain.
func (r *Reader) Rest() []uint8 {
	if r.err != nil || r.off == len(r.buf) {
		return nil
	}
	out := bytes.Clone(r.buf[r.off:])
	r.off = len(r.buf)
	return out
}
