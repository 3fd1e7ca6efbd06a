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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"go.steamlang.org/steamlang/encoding/steamcbor"
	"go.steamlang.org/steamlang/internal/testutil"
)

const pingSource = `enum EMsg {
	Ping = 5001;
}

message Ping <EMsg.Ping> {
	uint32 clientId;
	uint64 timestamp;
}
`

type cliResult struct {
	exitCode int
	stdout   string
	stderr   string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	exitCode := runMain(context.Background(), args, &stdout, &stderr)
	return cliResult{
		exitCode: exitCode,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
	}
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "ping.steamd", pingSource)
	output := filepath.Join(dir, "ping.go")

	result := runCLI(t, "generate", input, "-o", output, "--package", "pingmsg")
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectEq(t, "", result.stderr)

	src, err := os.ReadFile(output)
	testutil.AssertNoError(t, err)
	testutil.ExpectMatch(t, `(?m)^package pingmsg$`, string(src))
	testutil.ExpectMatch(t, `(?m)^type Ping struct \{$`, string(src))

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 2, len(entries))
}

func TestGenerateStdout(t *testing.T) {
	input := writeSource(t, t.TempDir(), "ping.steamd", pingSource)

	result := runCLI(t, "generate", input)
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectMatch(t, `(?m)^package steammsg$`, result.stdout)
}

func TestGenerateDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.steamd", "import \"b.steamd\";\n\nmessage A { B b; }\n")
	writeSource(t, dir, "b.steamd", "message B { uint8 x; }\n")

	result := runCLI(t, "generate", dir)
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectMatch(t, `(?m)^type A struct \{$`, result.stdout)
	testutil.ExpectMatch(t, `(?m)^type B struct \{$`, result.stdout)
}

func TestGenerateConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "ping.steamd", pingSource)
	configPath := writeSource(t, dir, "steamlang.yaml", "package: fromconfig\n")

	result := runCLI(t, "--config", configPath, "generate", input)
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectMatch(t, `(?m)^package fromconfig$`, result.stdout)

	result = runCLI(t, "--config", configPath, "generate", input, "--package", "fromflag")
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectMatch(t, `(?m)^package fromflag$`, result.stdout)
}

func TestCheckDiagnostics(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "dup.steamd", "enum E {\n\tA = 1;\n\tB = 1;\n}\n")

	result := runCLI(t, "check", input)
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectEq(t, "", result.stdout)
	testutil.ExpectMatch(t, `^dup\.steamd:3:\d+: E3006 DuplicateValueError: `, result.stderr)
}

func TestCheckNameCollision(t *testing.T) {
	input := writeSource(t, t.TempDir(), "reg.steamd", "message Registry {}\n")

	result := runCLI(t, "check", input)
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectMatch(t, `^codegen: Go identifier "Registry"`, result.stderr)
}

func TestCheckMissingInput(t *testing.T) {
	result := runCLI(t, "check", filepath.Join(t.TempDir(), "missing.steamd"))
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectTrue(t, strings.Contains(result.stderr, "missing.steamd"))
}

func TestCompileFormats(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "ping.steamd", pingSource)

	result := runCLI(t, "compile", input)
	testutil.ExpectEq(t, 0, result.exitCode)
	testutil.ExpectMatch(t, `(?m)^message Ping <EMsg.Ping = 5001> \{$`, result.stdout)

	cborPath := filepath.Join(dir, "ping.cbor")
	result = runCLI(t, "compile", input, "--format=cbor", "-o", cborPath)
	testutil.ExpectEq(t, 0, result.exitCode)
	cborBuf, err := os.ReadFile(cborPath)
	testutil.AssertNoError(t, err)
	schema, err := steamcbor.UnmarshalSchema(cborBuf)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "Ping", schema.Messages[0].Name)

	result = runCLI(t, "compile", input, "--format=descriptor", "--proto-package=steam.msg")
	testutil.ExpectEq(t, 0, result.exitCode)
	var fd descriptorpb.FileDescriptorProto
	testutil.AssertNoError(t, proto.Unmarshal([]byte(result.stdout), &fd))
	testutil.ExpectEq(t, "steam/msg.proto", fd.GetName())
	testutil.ExpectEq(t, "steam.msg", fd.GetPackage())
}

func TestCompileUnknownFormat(t *testing.T) {
	input := writeSource(t, t.TempDir(), "ping.steamd", pingSource)

	result := runCLI(t, "compile", input, "--format=xml")
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectMatch(t, `^Unsupported output format "xml"`, result.stderr)
}

func TestCodegenPluginNotFound(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "ping.steamd", pingSource)

	result := runCLI(t, "codegen", input, "-o", filepath.Join(dir, "out"), "--plugin-path", dir)
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectMatch(t, `steamlang-codegen-go\.wasm not found in plugin path`, result.stderr)

	result = runCLI(t, "codegen", input, "--plugin-path", dir)
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectMatch(t, `No output directory specified`, result.stderr)
}

func TestLocatePlugin(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	want := writeSource(t, second, "steamlang-codegen-go.wasm", "")
	pluginPath := strings.Join([]string{first, second}, string(filepath.ListSeparator))

	got, err := locatePlugin(pluginPath, "go")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, want, got)

	_, err = locatePlugin(pluginPath, "rust")
	testutil.AssertError(t, err)

	_, err = locatePlugin("", "go")
	testutil.ExpectMatch(t, `No plugin path set`, err.Error())

	_, err = locatePlugin(pluginPath, "../go")
	testutil.ExpectMatch(t, `Invalid plugin name`, err.Error())
}

func TestRunPluginInvalidModule(t *testing.T) {
	t.Parallel()

	_, err := runPlugin(context.Background(), zap.NewNop(), []byte("not wasm"), nil)
	testutil.AssertError(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")
	testutil.AssertNoError(t, writeFileAtomic(path, []byte("first")))
	testutil.AssertNoError(t, writeFileAtomic(path, []byte("second")))

	got, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 1, len(entries))

	err = writeFileAtomic(filepath.Join(dir, "missing", "out.go"), nil)
	testutil.AssertError(t, err)
}

func TestUsage(t *testing.T) {
	result := runCLI(t)
	testutil.ExpectEq(t, 1, result.exitCode)
	testutil.ExpectMatch(t, `Usage:`, result.stderr)

	result = runCLI(t, "frobnicate")
	testutil.ExpectEq(t, 1, result.exitCode)

	result = runCLI(t, "check")
	testutil.ExpectEq(t, 1, result.exitCode)
}
