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

package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"go.steamlang.org/steamlang/internal/config"
	"go.steamlang.org/steamlang/internal/logging"
	"go.steamlang.org/steamlang/internal/testutil"
)

func TestConsoleLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn, err := logging.New(config.LogConfig{
		Level:  "info",
		Format: "console",
	}, &buf)
	testutil.AssertNoError(t, err)

	logger.Debug("hidden")
	logger.Info("parsed files", zap.Int("files", 3))
	testutil.AssertNoError(t, closeFn())

	out := buf.String()
	testutil.ExpectFalse(t, strings.Contains(out, "hidden"))
	testutil.ExpectMatch(t, `INFO\s+parsed files\s+\{"files": 3\}`, out)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn, err := logging.New(config.LogConfig{
		Level:  "debug",
		Format: "json",
	}, &buf)
	testutil.AssertNoError(t, err)

	logger.Debug("wrote output", zap.String("path", "out.go"))
	testutil.AssertNoError(t, closeFn())

	var entry map[string]any
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &entry))
	testutil.ExpectEq(t, "debug", entry["level"].(string))
	testutil.ExpectEq(t, "wrote output", entry["msg"].(string))
	testutil.ExpectEq(t, "out.go", entry["path"].(string))
}

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "steamlang.log")
	var buf bytes.Buffer
	logger, closeFn, err := logging.New(config.LogConfig{
		Level:     "warn",
		Format:    "console",
		File:      path,
		MaxSizeMB: 1,
	}, &buf)
	testutil.AssertNoError(t, err)

	logger.Info("hidden")
	logger.Warn("plugin wrote no files")
	testutil.AssertNoError(t, closeFn())

	content, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `"msg":"plugin wrote no files"`, string(content))
	testutil.ExpectFalse(t, strings.Contains(string(content), "hidden"))
	testutil.ExpectMatch(t, `WARN`, buf.String())
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	_, _, err := logging.New(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	testutil.AssertError(t, err)

	_, _, err = logging.New(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	testutil.AssertError(t, err)
}
