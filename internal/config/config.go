// Package config loads edoalrw settings.
//
// Precedence, highest first: explicitly set flags, EDOALRW_* environment
// variables, the YAML config file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultFile          = "edoalrw.yaml"
	DefaultFormat        = "text"
	DefaultTempVarPrefix = "variable_temp"
	EnvPrefix            = "EDOALRW_"
)

// ValidFormats are the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Config holds the resolved settings.
type Config struct {
	Verbose          bool   `koanf:"verbose"`
	Format           string `koanf:"format"`
	Database         string `koanf:"database"`
	TempVarPrefix    string `koanf:"temp_var_prefix"`
	ValidateContract bool   `koanf:"validate_contract"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

// flagKeys maps flag names whose config key differs from the flag name.
var flagKeys = map[string]string{
	"db": "database",
}

// Load resolves the configuration. path names an explicit config file;
// when empty, DefaultFile is read if it exists in the working directory.
// Only flags that were set on the command line override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"verbose":           false,
		"format":            DefaultFormat,
		"database":          "",
		"temp_var_prefix":   DefaultTempVarPrefix,
		"validate_contract": true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := path
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// EDOALRW_TEMP_VAR_PREFIX -> temp_var_prefix
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	return &cfg, nil
}

// Validate checks the format and the temp variable prefix.
func (c *Config) Validate() error {
	valid := false
	for _, f := range ValidFormats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if c.TempVarPrefix == "" {
		return fmt.Errorf("temp_var_prefix must not be empty")
	}
	for i, r := range c.TempVarPrefix {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return fmt.Errorf("temp_var_prefix %q is not a valid variable name prefix", c.TempVarPrefix)
		}
	}
	return nil
}
