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

// Package steamlang is the runtime half of the steamlang protocol compiler.
//
// Every type emitted by the code generator implements [Codec]. Encoding is a
// pure function of the value, decoding is a pure function of the input
// buffer, and neither touches shared state, so generated types and the
// dispatch [Registry] may be used from any number of goroutines.
package steamlang

import (
	"encoding/binary"
)

// RefSize is the wire size of a boxed (out-of-line) reference.
const RefSize = 8

type Encoder interface {
	SizeHint() int
	AppendTo(buf []uint8) []uint8
}

type Decoder interface {
	SizeHint() int
	DecodeFrom(r *Reader)
}

// Codec is the contract implemented by every generated enum, flags and
// message type.
//
// SizeHint returns the fixed wire size of the type, or the size of its fixed
// prefix if the type ends with an open (variable-length) field.
type Codec interface {
	Encoder
	Decoder
	Encode() []uint8
	Decode(buf []uint8) error
}

// Message is a Codec with an associated dispatch code.
type Message interface {
	Codec
	Code() uint32
}

// JobHeader is implemented by message headers that carry the job ids used to
// match a response to the request that caused it.
type JobHeader interface {
	TargetJob() uint64
	SourceJob() uint64
	SetTargetJob(id uint64)
	SetSourceJob(id uint64)
}

// Decode reads v from the start of buf.
//
// Input shorter than v.SizeHint() is rejected with a [TruncatedInputError]
// before any field is read. Bytes following a fixed-size value are ignored;
// use [Split] to recover them.
func Decode(v Decoder, buf []uint8) error {
	if need := v.SizeHint(); len(buf) < need {
		return &TruncatedInputError{
			Need: need,
			Have: len(buf),
		}
	}
	r := NewReader(buf)
	v.DecodeFrom(r)
	return r.Err()
}

// Split decodes v from the start of buf and returns the bytes that follow it.
func Split(v Decoder, buf []uint8) ([]uint8, error) {
	if need := v.SizeHint(); len(buf) < need {
		return nil, &TruncatedInputError{
			Need: need,
			Have: len(buf),
		}
	}
	r := NewReader(buf)
	v.DecodeFrom(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return buf[r.Offset():], nil
}

// Encode returns the wire representation of v.
func Encode(v Encoder) []uint8 {
	return v.AppendTo(make([]uint8, 0, v.SizeHint()))
}

func AppendBool(buf []uint8, v bool) []uint8 {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func AppendUint8(buf []uint8, v uint8) []uint8 {
	return append(buf, v)
}

func AppendInt8(buf []uint8, v int8) []uint8 {
	return append(buf, uint8(v))
}

func AppendUint16(buf []uint8, v uint16) []uint8 {
	return binary.LittleEndian.AppendUint16(buf, v)
}

func AppendInt16(buf []uint8, v int16) []uint8 {
	return binary.LittleEndian.AppendUint16(buf, uint16(v))
}

func AppendUint32(buf []uint8, v uint32) []uint8 {
	return binary.LittleEndian.AppendUint32(buf, v)
}

func AppendInt32(buf []uint8, v int32) []uint8 {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}

func AppendUint64(buf []uint8, v uint64) []uint8 {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func AppendInt64(buf []uint8, v int64) []uint8 {
	return binary.LittleEndian.AppendUint64(buf, uint64(v))
}
