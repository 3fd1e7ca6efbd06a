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

package main

import (
	"encoding/binary"
	"math"
	"unsafe"

	"go.steamlang.org/steamlang/codegen"
)

// Buffers handed to the host stay reachable until it deallocates them.
var buffers = make(map[*uint8][]uint8)

//go:export steamlang_codegen_allocate
func steamlangCodegenAllocate(len uint32) *uint8 {
	if len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export steamlang_codegen_deallocate
func steamlangCodegenDeallocate(ptr *uint8) {
	delete(buffers, ptr)
}

//go:export steamlang_codegen_generate
func steamlangCodegenGenerate(requestPtr *uint8, requestLen uint32, responsePtrPtr **uint8) uint8 {
	requestBuf := unsafe.Slice(requestPtr, requestLen)
	responseBuf, rc := codegen.Serve(requestBuf)

	framed := make([]uint8, 4, 4+len(responseBuf))
	binary.LittleEndian.PutUint32(framed, uint32(len(responseBuf)))
	framed = append(framed, responseBuf...)

	responsePtr := unsafe.SliceData(framed)
	buffers[responsePtr] = framed
	*responsePtrPtr = responsePtr
	return rc
}
