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

package testutil

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"testing"
)

// Diagnostic is one entry of testdata/diagnostics/errors.json.
type Diagnostic struct {
	Key     string
	Code    uint32
	Kind    string
	Message string
	Pattern *regexp.Regexp
}

func LoadDiagnostics(testdata fs.FS) (map[string]*Diagnostic, error) {
	type rawDiagnostic struct {
		Code    uint32 `json:"code"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, "diagnostics/errors.json")
	if err != nil {
		return nil, err
	}

	var rawEntries map[string]json.RawMessage
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawEntries); err != nil {
		return nil, err
	}

	out := make(map[string]*Diagnostic, len(rawEntries))
	codes := make(map[uint32]struct{}, len(rawEntries))
	for key, entry := range rawEntries {
		if strings.HasPrefix(key, "_") {
			continue
		}
		var raw rawDiagnostic
		if err := json.Unmarshal(entry, &raw); err != nil {
			return nil, fmt.Errorf("diagnostic %q: %w", key, err)
		}
		if raw.Code == 0 {
			return nil, fmt.Errorf("diagnostic %q has no error code", key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("duplicate diagnostic code %d", raw.Code)
		}
		codes[raw.Code] = struct{}{}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile("(?i)" + raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Kind:    raw.Kind,
			Message: raw.Message,
			Pattern: pattern,
		}
	}

	return out, nil
}

// ExpectMessage checks a diagnostic message against the catalog entry.
func (d *Diagnostic) ExpectMessage(t *testing.T, got string) {
	t.Helper()
	if d.Pattern != nil {
		ExpectMatch(t, d.Pattern, got)
	} else if d.Message != "" {
		ExpectEq(t, d.Message, got)
	}
}

type ExpectedError struct {
	*Diagnostic
	File   string
	Line   uint32
	Column uint32
}

func LoadExpectedErrors(
	t *testing.T,
	diagnostics map[string]*Diagnostic,
	testdata fs.FS,
	jsonPath string,
) []*ExpectedError {
	t.Helper()

	jsonData, err := fs.ReadFile(testdata, jsonPath)
	if err != nil {
		t.Fatal(err)
	}

	type expectedErrors struct {
		Errors []struct {
			Error  string `json:"error"`
			File   string `json:"file"`
			Line   uint32 `json:"line"`
			Column uint32 `json:"column"`
		} `json:"errors"`
	}

	var raw expectedErrors
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		t.Fatal(err)
	}

	var out []*ExpectedError
	for _, raw := range raw.Errors {
		diag, ok := diagnostics[raw.Error]
		if !ok {
			t.Fatalf("unknown diagnostic name %q", raw.Error)
		}
		out = append(out, &ExpectedError{
			Diagnostic: diag,
			File:       raw.File,
			Line:       raw.Line,
			Column:     raw.Column,
		})
	}

	slices.SortStableFunc(out, func(a, b *ExpectedError) int {
		if x := cmp.Compare(a.File, b.File); x != 0 {
			return x
		}
		if x := cmp.Compare(a.Line, b.Line); x != 0 {
			return x
		}
		return cmp.Compare(a.Column, b.Column)
	})
	return out
}
