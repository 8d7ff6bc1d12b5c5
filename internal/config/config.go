// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shroomkit/wzschema/internal/issue"
	"github.com/shroomkit/wzschema/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "wzschema"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// LocalConfigName is the name of the project-local config file (without extension).
	LocalConfigName = "wzschema"
	// EnvPrefix prefixes environment overrides (WZSCHEMA_VALIDATOR, WZSCHEMA_UI_VERBOSE).
	EnvPrefix = "WZSCHEMA"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the wzschema configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// resolved config and the path of the file that was merged (empty if none).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("items_root", defaults.ItemsRoot)
	v.SetDefault("item_kind", string(defaults.ItemKind))
	v.SetDefault("schema_file", defaults.SchemaFile)
	v.SetDefault("validator", defaults.Validator)
	v.SetDefault("zero_match", string(defaults.ZeroMatch))
	v.SetDefault("settings_file", defaults.SettingsFile)
	v.SetDefault("shared_schema", defaults.SharedSchema)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		// An explicit --config path is used exclusively.
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'wzschema config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadFileIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", err
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		candidates, err := candidatePaths(opts)
		if err != nil {
			return nil, "", err
		}
		for _, path := range candidates {
			if !fileExists(path) {
				continue
			}
			if err := loadFileIntoViper(v, path); err != nil {
				return nil, "", err
			}
			resolvedPath = path
			break
		}
		// No config file found: defaults and environment only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		ctxErr := issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check WZSCHEMA_* environment variables and the config file").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0])
		if resolvedPath != "" {
			ctxErr = ctxErr.WithResource(resolvedPath)
		}
		return nil, "", ctxErr.BuildError()
	}

	return &cfg, resolvedPath, nil
}

// candidatePaths lists config files in precedence order: project-local files
// first, then the user config directory.
func candidatePaths(opts LoadOptions) ([]string, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		cfgDir = dir
	}

	return []string{
		filepath.Join(baseDir, LocalConfigName+".cue"),
		filepath.Join(baseDir, LocalConfigName+".toml"),
		filepath.Join(cfgDir, ConfigFileName+".cue"),
		filepath.Join(cfgDir, ConfigFileName+".toml"),
	}, nil
}

// loadFileIntoViper validates a CUE or TOML config file against the #Config
// schema and merges its contents into Viper.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadError(path, fmt.Errorf("failed to read config file: %w", err))
	}

	var configMap map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		configMap, err = decodeCUE(path, data)
	case ".toml":
		configMap, err = decodeTOML(path, data)
	default:
		err = fmt.Errorf("unsupported config format %q (use .cue or .toml)", ext)
	}
	if err != nil {
		return loadError(path, err)
	}

	// Merge keeps defaults and env overrides in place.
	if err := v.MergeConfigMap(configMap); err != nil {
		return loadError(path, fmt.Errorf("failed to merge config: %w", err))
	}

	return nil
}

func decodeCUE(path string, data []byte) (map[string]any, error) {
	result, err := cueutil.ParseAndDecode[map[string]any](
		configSchema,
		data,
		"#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}
	return *result.Value, nil
}

func decodeTOML(path string, data []byte) (map[string]any, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	result, err := cueutil.EncodeAndDecode[map[string]any](
		configSchema,
		raw,
		"#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}
	return *result.Value, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file is valid CUE or TOML").
		WithSuggestion("Verify the values match the configuration schema").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Marshal renders cfg in the given format ("cue" or "toml").
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "", "cue":
		out, err := cueutil.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		header := "// wzschema configuration\n\n"
		return append([]byte(header), out...), nil
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unsupported format %q (use cue or toml)", format)
	}
}
