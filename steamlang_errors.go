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
	"fmt"
)

// TruncatedInputError reports a buffer that ended before a value was fully
// decoded.
type TruncatedInputError struct {
	Offset int
	Need   int
	Have   int
}

var _ error = (*TruncatedInputError)(nil)

func (err *TruncatedInputError) Error() string {
	return fmt.Sprintf(
		"steamlang: truncated input at offset %d (need %d bytes, have %d)",
		err.Offset, err.Need, err.Have,
	)
}

// UnknownOpCodeError reports a dispatch code with no registered decoder.
type UnknownOpCodeError struct {
	Code uint32
}

var _ error = (*UnknownOpCodeError)(nil)

func (err *UnknownOpCodeError) Error() string {
	return fmt.Sprintf("steamlang: unknown op code %d", err.Code)
}

// DuplicateCodeError reports two registry entries claiming the same code.
type DuplicateCodeError struct {
	Code   uint32
	First  string
	Second string
}

var _ error = (*DuplicateCodeError)(nil)

func (err *DuplicateCodeError) Error() string {
	return fmt.Sprintf(
		"steamlang: op code %d registered by both %s and %s",
		err.Code, err.First, err.Second,
	)
}
