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

// Package steamcbor serializes resolved schemas and codegen plugin messages
// as canonical CBOR (RFC 8949 section 4.2.1). Equal values always encode to
// identical bytes.
package steamcbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"go.steamlang.org/steamlang/compiler"
)

const ContentType = "application/cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data into v. Map keys that don't match a field of v are
// rejected.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

func MarshalSchema(schema *compiler.Schema) ([]byte, error) {
	data, err := Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("steamcbor: encode schema: %w", err)
	}
	return data, nil
}

func UnmarshalSchema(data []byte) (*compiler.Schema, error) {
	var schema compiler.Schema
	if err := Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("steamcbor: decode schema: %w", err)
	}
	return &schema, nil
}
