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

package steamlang_test

import (
	"math"
	"testing"

	"go.steamlang.org/steamlang"
	"go.steamlang.org/steamlang/internal/testutil"
)

func TestAppendIntegers(t *testing.T) {
	t.Parallel()

	var buf []uint8
	buf = steamlang.AppendBool(buf, true)
	buf = steamlang.AppendInt8(buf, -2)
	buf = steamlang.AppendUint16(buf, 0x0102)
	buf = steamlang.AppendInt16(buf, -1)
	buf = steamlang.AppendUint32(buf, 0x01020304)
	buf = steamlang.AppendInt32(buf, math.MinInt32)
	buf = steamlang.AppendUint64(buf, 0x0102030405060708)
	buf = steamlang.AppendInt64(buf, -2)

	testutil.ExpectBytesEq(t, []uint8{
		0x01,
		0xFE,
		0x02, 0x01,
		0xFF, 0xFF,
		0x04, 0x03, 0x02, 0x01,
		0x00, 0x00, 0x00, 0x80,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}, buf)

	r := steamlang.NewReader(buf)
	testutil.ExpectEq(t, true, r.Bool())
	testutil.ExpectEq(t, int8(-2), r.Int8())
	testutil.ExpectEq(t, uint16(0x0102), r.Uint16())
	testutil.ExpectEq(t, int16(-1), r.Int16())
	testutil.ExpectEq(t, uint32(0x01020304), r.Uint32())
	testutil.ExpectEq(t, int32(math.MinInt32), r.Int32())
	testutil.ExpectEq(t, uint64(0x0102030405060708), r.Uint64())
	testutil.ExpectEq(t, int64(-2), r.Int64())
	testutil.ExpectNoError(t, r.Err())
	testutil.ExpectEq(t, len(buf), r.Offset())
	testutil.ExpectEq(t, 0, r.Len())
}

func TestReaderNonzeroBool(t *testing.T) {
	t.Parallel()

	r := steamlang.NewReader([]uint8{0x02})
	testutil.ExpectTrue(t, r.Bool())
}

func TestReaderTruncated(t *testing.T) {
	t.Parallel()

	r := steamlang.NewReader([]uint8{0x01, 0x02, 0x03})
	testutil.ExpectEq(t, uint16(0x0201), r.Uint16())
	testutil.ExpectEq(t, uint32(0), r.Uint32())

	err := testutil.AssertErrorAs[*steamlang.TruncatedInputError](t, r.Err())
	testutil.ExpectEq(t, 2, err.Offset)
	testutil.ExpectEq(t, 4, err.Need)
	testutil.ExpectEq(t, 1, err.Have)

	// Reads after the first failure don't consume input.
	testutil.ExpectEq(t, uint8(0), r.Uint8())
	testutil.ExpectEq(t, 2, r.Offset())
	testutil.ExpectEq(t, err, r.Err().(*steamlang.TruncatedInputError))
}

func TestReaderBytes(t *testing.T) {
	t.Parallel()

	r := steamlang.NewReader([]uint8{0x01, 0x02, 0x03, 0x04, 0x05})
	var dst [2]uint8
	r.Bytes(dst[:])
	testutil.ExpectEq(t, [2]uint8{0x01, 0x02}, dst)
	testutil.ExpectEq(t, 3, r.Len())

	rest := r.Rest()
	testutil.ExpectBytesEq(t, []uint8{0x03, 0x04, 0x05}, rest)
	testutil.ExpectEq(t, 0, r.Len())
	testutil.ExpectTrue(t, r.Rest() == nil)
	testutil.ExpectNoError(t, r.Err())

	var big [4]uint8
	r.Bytes(big[:])
	testutil.ExpectEq(t, [4]uint8{}, big)
	testutil.AssertErrorAs[*steamlang.TruncatedInputError](t, r.Err())
}

func TestRefEncoding(t *testing.T) {
	t.Parallel()

	ref := steamlang.Ref[struct{}]{ID: 0x0102}
	testutil.ExpectEq(t, steamlang.RefSize, ref.SizeHint())
	testutil.ExpectFalse(t, ref.IsNil())
	testutil.ExpectTrue(t, steamlang.Ref[struct{}]{}.IsNil())

	buf := ref.AppendTo(nil)
	testutil.ExpectBytesEq(t, []uint8{0x02, 0x01, 0, 0, 0, 0, 0, 0}, buf)

	var decoded steamlang.Ref[struct{}]
	r := steamlang.NewReader(buf)
	decoded.DecodeFrom(r)
	testutil.ExpectNoError(t, r.Err())
	testutil.ExpectEq(t, ref, decoded)
}
