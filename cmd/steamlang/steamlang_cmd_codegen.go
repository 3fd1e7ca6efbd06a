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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"go.steamlang.org/steamlang/codegen"
)

const (
	pluginAllocate = "steamlang_codegen_allocate"
	pluginGenerate = "steamlang_codegen_generate"
)

type cmdCodegen struct {
	plugin string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen INPUT",
		summary: "Run a WebAssembly codegen plugin on a schema",
		args:    cobra.ExactArgs(1),
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.plugin, "plugin", "go", "Name of the codegen plugin")
	flags.StringP("output", "o", "", "Output directory")
	flags.String("plugin-path", "", "Directories to search for plugins")
	flags.String("package", "", "Name of the generated package")
	flags.String("runtime-import", "", "Import path of the steamlang runtime")
}

func (cmd *cmdCodegen) run(ctx context.Context, sess *session, argv []string) int {
	outDir := sess.cfg.Output
	if outDir == "" {
		fmt.Fprintln(sess.stderr, "No output directory specified (set --output=)")
		return 1
	}
	pluginPath, err := locatePlugin(sess.cfg.PluginPath, cmd.plugin)
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}

	schema := sess.loadSchema(ctx, argv[0])
	if schema == nil {
		return 1
	}
	requestBuf, err := codegen.EncodeRequest(&codegen.Request{
		Schema: schema,
		Options: codegen.Options{
			Package:       sess.cfg.Package,
			RuntimeImport: sess.cfg.RuntimeImport,
		},
	})
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}

	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		fmt.Fprintln(sess.stderr, err)
		return 1
	}
	response, err := runPlugin(ctx, sess.log, pluginBin, requestBuf)
	if err != nil {
		fmt.Fprintf(sess.stderr, "Plugin %s: %v\n", pluginPath, err)
		return 1
	}
	if response.Error != "" {
		fmt.Fprintln(sess.stderr, response.Error)
		return 1
	}
	if len(response.Files) == 0 {
		fmt.Fprintln(sess.stderr, "Plugin did not generate any output files")
		return 1
	}

	// Every path is checked before anything is written.
	outPaths := make([]string, 0, len(response.Files))
	for _, file := range response.Files {
		outPath, err := codegen.OutputPath(outDir, file)
		if err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		outPaths = append(outPaths, outPath)
	}
	for ii, file := range response.Files {
		if err := os.MkdirAll(filepath.Dir(outPaths[ii]), 0o755); err != nil {
			fmt.Fprintln(sess.stderr, err)
			return 1
		}
		if rc := sess.writeOutput(outPaths[ii], file.Content); rc != 0 {
			return rc
		}
	}
	return 0
}

// locatePlugin searches each directory of pluginPath for the plugin binary
// steamlang-codegen-NAME.wasm.
func locatePlugin(pluginPath, name string) (string, error) {
	if pluginPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $STEAMLANG_CODEGEN_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("steamlang-codegen-%s.wasm", name)
	if filepath.Base(basename) != basename {
		return "", fmt.Errorf("Invalid plugin name %q", name)
	}
	for _, dir := range filepath.SplitList(pluginPath) {
		candidate := filepath.Join(dir, basename)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

// runPlugin instantiates a plugin module and passes it one request.
//
// The plugin exports allocate(len) -> ptr and generate(requestPtr,
// requestLen, responsePtrPtr) -> rc. Generate stores a pointer to the
// response at responsePtrPtr; the response is a little-endian uint32 length
// followed by that many bytes.
func runPlugin(
	ctx context.Context,
	log *zap.Logger,
	pluginBin []byte,
	requestBuf []byte,
) (*codegen.Response, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, wasm.NewModuleConfig())
	if err != nil {
		return nil, err
	}
	mem := plugin.Memory()
	if mem == nil {
		return nil, fmt.Errorf("plugin does not export memory")
	}
	wasmAlloc := plugin.ExportedFunction(pluginAllocate)
	if wasmAlloc == nil {
		return nil, fmt.Errorf("plugin does not export %q", pluginAllocate)
	}
	wasmGenerate := plugin.ExportedFunction(pluginGenerate)
	if wasmGenerate == nil {
		return nil, fmt.Errorf("plugin does not export %q", pluginGenerate)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if requestPtr == 0 || !mem.Write(requestPtr, requestBuf) {
		return nil, fmt.Errorf("failed to write request (%d bytes)", len(requestBuf))
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(
		ctx,
		uint64(requestPtr),
		uint64(len(requestBuf)),
		uint64(responsePtrPtr),
	)
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, fmt.Errorf("failed to read response (%d bytes)", responseLen)
	}

	log.Debug("plugin call",
		zap.Int("request_bytes", len(requestBuf)),
		zap.Uint32("response_bytes", responseLen),
		zap.Uint8("rc", rc),
	)
	response, err := codegen.DecodeResponse(bytes.Clone(responseBuf))
	if err != nil {
		return nil, err
	}
	if rc != 0 && response.Error == "" {
		response.Error = fmt.Sprintf("Plugin failed with code %d", rc)
	}
	return response, nil
}
