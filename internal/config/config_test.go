package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Bool("verbose", false, "")
	fs.String("format", "text", "")
	fs.String("db", "", "")
	fs.String("temp-var-prefix", "", "")
	fs.Bool("validate-contract", true, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edoalrw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:           DefaultFormat,
		TempVarPrefix:    DefaultTempVarPrefix,
		ValidateContract: true,
	}, cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "format: json\ndatabase: journal.db\ntemp_var_prefix: tmp\nvalidate_contract: false\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "journal.db", cfg.Database)
	assert.Equal(t, "tmp", cfg.TempVarPrefix)
	assert.False(t, cfg.ValidateContract)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("verbose: true\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, DefaultFile, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "format: json\ntemp_var_prefix: tmp\n")
	t.Setenv("EDOALRW_TEMP_VAR_PREFIX", "envvar")
	t.Setenv("EDOALRW_VALIDATE_CONTRACT", "false")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "envvar", cfg.TempVarPrefix)
	assert.False(t, cfg.ValidateContract)
}

func TestLoad_SetFlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "format: json\ndatabase: file.db\n")
	t.Setenv("EDOALRW_DATABASE", "env.db")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--db", "flag.db", "--temp-var-prefix", "t"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "flag.db", cfg.Database)
	assert.Equal(t, "t", cfg.TempVarPrefix)
	assert.Equal(t, "json", cfg.Format, "unset --format does not override the file")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{"defaults", Config{Format: "text", TempVarPrefix: "variable_temp"}, ""},
		{"json", Config{Format: "json", TempVarPrefix: "t_1"}, ""},
		{"bad format", Config{Format: "yaml", TempVarPrefix: "t"}, "invalid format"},
		{"empty prefix", Config{Format: "text"}, "must not be empty"},
		{"leading digit", Config{Format: "text", TempVarPrefix: "1t"}, "not a valid variable name prefix"},
		{"punctuation", Config{Format: "text", TempVarPrefix: "t-"}, "not a valid variable name prefix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
