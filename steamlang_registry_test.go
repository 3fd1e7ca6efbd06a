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
	"testing"

	"go.steamlang.org/steamlang"
	"go.steamlang.org/steamlang/internal/testutil"
)

// pair is a two-field message used to test the registry without generated
// code.
type pair struct {
	code uint32
	a    uint16
	b    uint8
}

func (*pair) SizeHint() int {
	return 3
}

func (m *pair) AppendTo(buf []uint8) []uint8 {
	buf = steamlang.AppendUint16(buf, m.a)
	return steamlang.AppendUint8(buf, m.b)
}

func (m *pair) DecodeFrom(r *steamlang.Reader) {
	m.a = r.Uint16()
	m.b = r.Uint8()
}

func (m *pair) Encode() []uint8 {
	return steamlang.Encode(m)
}

func (m *pair) Decode(buf []uint8) error {
	return steamlang.Decode(m, buf)
}

func (m *pair) Code() uint32 {
	return m.code
}

var _ steamlang.Message = (*pair)(nil)

func pairEntry(code uint32, name string) steamlang.Entry[steamlang.Message] {
	return steamlang.Entry[steamlang.Message]{
		Code:   code,
		Name:   name,
		Decode: steamlang.DecodeFunc[steamlang.Message, pair](),
	}
}

func TestRegistryDecode(t *testing.T) {
	t.Parallel()

	registry, err := steamlang.NewRegistry(
		pairEntry(5001, "Ping"),
		pairEntry(42, "Other"),
	)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 2, registry.Len())
	testutil.ExpectSliceEq(t, []uint32{42, 5001}, registry.Codes())

	msg, err := registry.Decode(5001, []uint8{0x01, 0x02, 0x03})
	testutil.AssertNoError(t, err)
	decoded, ok := msg.(*pair)
	if !ok {
		t.Fatalf("Decode(5001) returned %T", msg)
	}
	testutil.ExpectEq(t, uint16(0x0201), decoded.a)
	testutil.ExpectEq(t, uint8(0x03), decoded.b)

	entry, ok := registry.Lookup(42)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "Other", entry.Name)
}

func TestRegistryUnknownCode(t *testing.T) {
	t.Parallel()

	registry := steamlang.MustRegistry(pairEntry(5001, "Ping"))
	msg, err := registry.Decode(9999, []uint8{0x01, 0x02, 0x03})
	unknown := testutil.AssertErrorAs[*steamlang.UnknownOpCodeError](t, err)
	testutil.ExpectEq(t, uint32(9999), unknown.Code)
	testutil.ExpectTrue(t, msg == nil)
	testutil.ExpectEq(t, "steamlang: unknown op code 9999", err.Error())
}

func TestRegistryTruncated(t *testing.T) {
	t.Parallel()

	registry := steamlang.MustRegistry(pairEntry(5001, "Ping"))
	_, err := registry.Decode(5001, []uint8{0x01, 0x02})
	truncated := testutil.AssertErrorAs[*steamlang.TruncatedInputError](t, err)
	testutil.ExpectEq(t, 3, truncated.Need)
	testutil.ExpectEq(t, 2, truncated.Have)
}

func TestRegistryDuplicateCode(t *testing.T) {
	t.Parallel()

	_, err := steamlang.NewRegistry(
		pairEntry(5001, "Ping"),
		pairEntry(5001, "Pong"),
	)
	dup := testutil.AssertErrorAs[*steamlang.DuplicateCodeError](t, err)
	testutil.ExpectEq(t, uint32(5001), dup.Code)
	testutil.ExpectEq(t, "Ping", dup.First)
	testutil.ExpectEq(t, "Pong", dup.Second)

	defer func() {
		testutil.ExpectTrue(t, recover() != nil)
	}()
	steamlang.MustRegistry(pairEntry(1, "A"), pairEntry(1, "B"))
}

func TestSplit(t *testing.T) {
	t.Parallel()

	var msg pair
	rest, err := steamlang.Split(&msg, []uint8{0x01, 0x00, 0x02, 0xAA})
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []uint8{0xAA}, rest)
	testutil.ExpectEq(t, uint16(1), msg.a)

	_, err = steamlang.Split(&msg, []uint8{0x01})
	testutil.AssertErrorAs[*steamlang.TruncatedInputError](t, err)
}
