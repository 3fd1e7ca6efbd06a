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

// Command build compiles the Go codegen plugin to WebAssembly with TinyGo.
//
//	go run ./internal/build -o steamlang-codegen-go.wasm
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"go.steamlang.org/steamlang/internal/config"
	"go.steamlang.org/steamlang/internal/logging"
)

type buildOptions struct {
	tinygo   string
	output   string
	chdir    string
	goSdkBin string
	wasmOpt  string
	pkg      string
	debug    bool
}

func (opts *buildOptions) flags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.tinygo, "tinygo", "tinygo", "TinyGo binary")
	flags.StringVarP(&opts.output, "output", "o", "steamlang-codegen-go.wasm", "Output path")
	flags.StringVar(&opts.chdir, "chdir", "", "Directory to build in")
	flags.StringVar(&opts.goSdkBin, "go-sdk-bin", "", "Directory of the Go toolchain used by TinyGo")
	flags.StringVar(&opts.wasmOpt, "wasm-opt", "", "wasm-opt binary")
	flags.StringVar(&opts.pkg, "package", "./cmd/steamlang-codegen-go", "Package to build")
	flags.BoolVar(&opts.debug, "debug", false, "Keep debug information")
}

// tinygoArgs returns the arguments of `tinygo build`. Relative output
// paths are resolved against pwd, since TinyGo runs in opts.chdir.
func (opts *buildOptions) tinygoArgs(pwd string) []string {
	output := opts.output
	if !filepath.IsAbs(output) {
		output = filepath.Join(pwd, output)
	}
	args := []string{
		"build",
		"-o=" + output,
		"-target=wasm-unknown",
		"-opt=z",
		"-panic=trap",
	}
	if !opts.debug {
		args = append(args, "-no-debug")
	}
	return append(args, opts.pkg)
}

// env returns the environment of the TinyGo process.
func (opts *buildOptions) env(pwd string) []string {
	env := os.Environ()
	if opts.goSdkBin != "" {
		env = append(env, "PATH="+filepath.Join(pwd, opts.goSdkBin))
	}
	if opts.wasmOpt != "" {
		env = append(env, "WASMOPT="+filepath.Join(pwd, opts.wasmOpt))
	}
	return env
}

func main() {
	var opts buildOptions
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	opts.flags(flags)
	flags.Parse(os.Args[1:])

	logger, closeLog, err := logging.New(config.LogConfig{
		Level:  "info",
		Format: "console",
	}, os.Stderr)
	if err != nil {
		panic(err)
	}
	defer closeLog()

	pwd, err := os.Getwd()
	if err != nil {
		logger.Fatal("getwd", zap.Error(err))
	}
	tinygo, err := exec.LookPath(opts.tinygo)
	if err != nil {
		logger.Fatal("tinygo not found", zap.Error(err))
	}

	cmd := exec.Command(tinygo, opts.tinygoArgs(pwd)...)
	cmd.Env = opts.env(pwd)
	cmd.Dir = filepath.Join(pwd, opts.chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Info("building plugin", zap.Strings("args", cmd.Args))
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		closeLog()
		os.Exit(1)
	}
}
