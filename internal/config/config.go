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

// Package config loads the settings shared by every steamlang subcommand.
//
// Values are layered, highest precedence first: command-line flags that were
// set explicitly, STEAMLANG_* environment variables, the steamlang.yaml
// config file, then the defaults of [Default].
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "STEAMLANG"
	FileName  = "steamlang"
)

type Config struct {
	// Package is the name of generated Go packages.
	Package string `mapstructure:"package"`

	// RuntimeImport overrides the import path of the steamlang runtime in
	// generated code.
	RuntimeImport string `mapstructure:"runtime_import"`

	// Output is the default output path of generate, compile and codegen.
	Output string `mapstructure:"output"`

	// PluginPath is a list of directories searched for codegen plugins,
	// separated by the OS path list separator.
	PluginPath string `mapstructure:"plugin_path"`

	Log LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is console or json.
	Format string `mapstructure:"format"`

	// File, if set, receives a copy of every log entry. The file is rotated
	// once it reaches MaxSizeMB.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func Default() *Config {
	return &Config{
		Package: "steammsg",
		Log: LogConfig{
			Level:      "warn",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Flag names bound to config keys by [Load]. A flag missing from the flag
// set is skipped.
var flagKeys = map[string]string{
	"package":        "package",
	"runtime-import": "runtime_import",
	"output":         "output",
	"plugin-path":    "plugin_path",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-file":       "log.file",
}

// Load reads the config file at path, or steamlang.yaml in the working
// directory if path is empty. An explicit path must exist; the implicit
// file is optional. If $STEAMLANG_CONFIG is set it takes the place of an
// empty path.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("package", cfg.Package)
	v.SetDefault("runtime_import", cfg.RuntimeImport)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("plugin_path", cfg.PluginPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.compress", cfg.Log.Compress)

	if err := v.BindEnv(
		"plugin_path",
		EnvPrefix+"_PLUGIN_PATH",
		EnvPrefix+"_CODEGEN_PLUGIN_PATH",
	); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Log.Level = "warn"
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "console", "json":
	case "":
		c.Log.Format = "console"
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	return nil
}
