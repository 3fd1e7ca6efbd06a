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

package codegen

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.steamlang.org/steamlang/compiler"
	"go.steamlang.org/steamlang/encoding/steamcbor"
)

// Request is the input of a codegen plugin.
type Request struct {
	Schema  *compiler.Schema `cbor:"schema"`
	Options Options          `cbor:"options"`
}

// Response is the output of a codegen plugin. A non-empty Error means the
// plugin failed and Files must be ignored.
type Response struct {
	Error string       `cbor:"error,omitempty"`
	Files []OutputFile `cbor:"files,omitempty"`
}

// OutputFile is one generated file. Path is relative to the output
// directory, split into components.
type OutputFile struct {
	Path    []string `cbor:"path"`
	Content []byte   `cbor:"content"`
}

func EncodeRequest(req *Request) ([]byte, error) {
	buf, err := steamcbor.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("codegen: encode request: %w", err)
	}
	return buf, nil
}

func DecodeRequest(buf []byte) (*Request, error) {
	var req Request
	if err := steamcbor.Unmarshal(buf, &req); err != nil {
		return nil, fmt.Errorf("codegen: decode request: %w", err)
	}
	if req.Schema == nil {
		return nil, fmt.Errorf("codegen: decode request: missing schema")
	}
	return &req, nil
}

func EncodeResponse(resp *Response) ([]byte, error) {
	buf, err := steamcbor.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("codegen: encode response: %w", err)
	}
	return buf, nil
}

func DecodeResponse(buf []byte) (*Response, error) {
	var resp Response
	if err := steamcbor.Unmarshal(buf, &resp); err != nil {
		return nil, fmt.Errorf("codegen: decode response: %w", err)
	}
	return &resp, nil
}

// Handle runs the Go emitter for req. The output is a single file named
// after the generated package.
func Handle(req *Request) *Response {
	src, err := Generate(req.Schema, req.Options)
	if err != nil {
		return &Response{Error: err.Error()}
	}
	return &Response{
		Files: []OutputFile{{
			Path:    []string{req.Options.Package + ".go"},
			Content: src,
		}},
	}
}

// Serve decodes an encoded [Request], handles it, and returns the encoded
// [Response]. The result code is 0 on success and 1 if the response carries
// an error.
func Serve(requestBuf []byte) ([]byte, uint8) {
	var resp *Response
	req, err := DecodeRequest(requestBuf)
	if err != nil {
		resp = &Response{Error: err.Error()}
	} else {
		resp = Handle(req)
	}

	responseBuf, err := EncodeResponse(resp)
	if err != nil {
		resp = &Response{Error: err.Error()}
		responseBuf, _ = EncodeResponse(resp)
	}
	if resp.Error != "" {
		return responseBuf, 1
	}
	return responseBuf, 0
}

// OutputPath joins the components of file.Path under dir, rejecting any
// path that would escape it.
func OutputPath(dir string, file OutputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %q: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %q: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("Invalid output path %q: component %q contains a separator", parts, part)
		}
	}
	return filepath.Join(append([]string{dir}, parts...)...), nil
}
