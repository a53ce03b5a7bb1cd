// Package config resolves the runtime options from flags, environment,
// an optional .env file and the config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vidscribe/internal/api"
	"vidscribe/internal/dirs"
	"vidscribe/internal/model"
)

// EnvPrefix prefixes every environment variable, e.g. VIDSCRIBE_SERVER.
const EnvPrefix = "VIDSCRIBE"

// Keys and the flags bound to them.
var flagKeys = map[string]string{
	"server":     "server",
	"lang":       "lang",
	"out_dir":    "out-dir",
	"verbose":    "verbose",
	"debug":      "debug",
	"log_format": "log-format",
	"timeout":    "timeout",
	"db_path":    "db-path",
	"no_cache":   "no-cache",
	"output":     "output",
}

// Init wires v with config paths, env, defaults and flag bindings.
// envFiles are loaded into the process environment first; missing files
// are ignored. A config file that exists but cannot be parsed is an error.
func Init(v *viper.Viper, flags *pflag.FlagSet, envFiles ...string) error {
	for _, f := range envFiles {
		// godotenv never overrides variables already set.
		_ = godotenv.Load(f)
	}

	// Ensure base directories exist
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server", api.DefaultBaseURL)
	v.SetDefault("lang", "zh")
	v.SetDefault("log_format", "text")
	v.SetDefault("output", string(model.OutputTable))
	v.SetDefault("timeout", 30*time.Second)
	if out, err := dirs.DefaultOutputDir(); err == nil {
		v.SetDefault("out_dir", out)
	}
	if db, err := dirs.DefaultDBPath(); err == nil {
		v.SetDefault("db_path", db)
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("could not bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}
	return nil
}

// Options returns the resolved options.
func Options(v *viper.Viper) (model.CLIOptions, error) {
	opts := model.CLIOptions{
		ServerURL:       strings.TrimSpace(v.GetString("server")),
		SummaryLanguage: strings.TrimSpace(v.GetString("lang")),
		OutDir:          v.GetString("out_dir"),
		Timeout:         v.GetDuration("timeout"),
		NoCache:         v.GetBool("no_cache"),
		DBPath:          v.GetString("db_path"),
		Verbose:         v.GetBool("verbose"),
		Debug:           v.GetBool("debug"),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		Output:          model.OutputFormat(strings.ToLower(v.GetString("output"))),
	}

	if opts.ServerURL == "" {
		return opts, fmt.Errorf("server url is empty: %w", model.ErrNotValid)
	}
	if opts.SummaryLanguage == "" {
		return opts, fmt.Errorf("lang is empty: %w", model.ErrNotValid)
	}
	if opts.Timeout <= 0 {
		return opts, fmt.Errorf("timeout must be positive, got %s: %w", opts.Timeout, model.ErrNotValid)
	}
	switch opts.LogFormat {
	case "text", "json":
	default:
		return opts, fmt.Errorf("invalid log format %q (valid: text|json): %w", opts.LogFormat, model.ErrNotValid)
	}
	switch opts.Output {
	case model.OutputTable, model.OutputJSON, model.OutputYAML:
	default:
		return opts, fmt.Errorf("invalid output %q (valid: table|json|yaml): %w", opts.Output, model.ErrNotValid)
	}
	if !opts.NoCache && opts.DBPath == "" {
		return opts, fmt.Errorf("db path is empty, set it or use --no-cache: %w", model.ErrNotValid)
	}
	return opts, nil
}
