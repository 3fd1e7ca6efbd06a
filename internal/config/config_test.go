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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"go.steamlang.org/steamlang/internal/config"
	"go.steamlang.org/steamlang/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steamlang.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("package", "", "")
	flags.String("log-level", "", "")
	flags.String("plugin-path", "", "")
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "# empty\n"), nil)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, *config.Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
package: steammsg_v2
runtime_import: example.com/runtime
log:
  level: DEBUG
  format: json
  file: steamlang.log
`)
	cfg, err := config.Load(path, nil)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "steammsg_v2", cfg.Package)
	testutil.ExpectEq(t, "example.com/runtime", cfg.RuntimeImport)
	testutil.ExpectEq(t, "debug", cfg.Log.Level)
	testutil.ExpectEq(t, "json", cfg.Log.Format)
	testutil.ExpectEq(t, "steamlang.log", cfg.Log.File)
	testutil.ExpectEq(t, 50, cfg.Log.MaxSizeMB)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
package: from_file
log:
  level: info
`)
	t.Setenv("STEAMLANG_PACKAGE", "from_env")
	t.Setenv("STEAMLANG_LOG_LEVEL", "error")

	cfg, err := config.Load(path, testFlags(t, "--log-level=debug"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "from_env", cfg.Package)
	testutil.ExpectEq(t, "debug", cfg.Log.Level)

	cfg, err = config.Load(path, testFlags(t, "--package=from_flag"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "from_flag", cfg.Package)
	testutil.ExpectEq(t, "error", cfg.Log.Level)
}

func TestLoadPluginPathEnv(t *testing.T) {
	path := writeConfig(t, "# empty\n")
	t.Setenv("STEAMLANG_CODEGEN_PLUGIN_PATH", "/opt/steamlang/plugins")

	cfg, err := config.Load(path, testFlags(t))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "/opt/steamlang/plugins", cfg.PluginPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	testutil.AssertError(t, err)
	testutil.ExpectMatch(t, `^read config: `, err.Error())
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"level":  "log:\n  level: loud\n",
		"format": "log:\n  format: xml\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content), nil)
			testutil.AssertError(t, err)
			testutil.ExpectMatch(t, `^invalid log\.`+name, err.Error())
		})
	}
}
