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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"go.steamlang.org/steamlang/internal/config"
	"go.steamlang.org/steamlang/internal/logging"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, sess *session, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
	args    cobra.PositionalArgs
}

// session is the state shared by a single command invocation.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var configPath string
	exitCode := 0

	rootCmd := &cobra.Command{
		Use:          "steamlang [options] COMMAND",
		Short:        "Compiler for steamlang message schemas",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, rootCmd.UsageString())
		exitCode = 1
		return nil
	}

	globalFlags := rootCmd.PersistentFlags()
	globalFlags.StringVar(&configPath, "config", "", "Path to a steamlang.yaml config file")
	globalFlags.String("log-level", "", "Log level (debug, info, warn, error)")
	globalFlags.String("log-format", "", "Log format (console, json)")
	globalFlags.String("log-file", "", "Also write logs to this file, rotating it when large")

	commands := []command{
		&cmdGenerate{},
		&cmdCheck{},
		&cmdCompile{},
		&cmdCodegen{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			Args:  help.args,
			RunE: func(cobraCmd *cobra.Command, args []string) error {
				sess, closeFn, err := newSession(configPath, cobraCmd.Flags(), stdout, stderr)
				if err != nil {
					fmt.Fprintln(stderr, err)
					exitCode = 1
					return nil
				}
				defer closeFn()
				exitCode = cmd.run(ctx, sess, args)
				return nil
			},
		}
		rootCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	if _, err := rootCmd.ExecuteC(); err != nil {
		return 1
	}
	return exitCode
}

func newSession(
	configPath string,
	flags *pflag.FlagSet,
	stdout, stderr io.Writer,
) (*session, func() error, error) {
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return nil, nil, err
	}
	logger, closeFn, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, nil, err
	}
	return &session{
		cfg:    cfg,
		log:    logger,
		stdout: stdout,
		stderr: stderr,
	}, closeFn, nil
}
