package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "logmagic.yaml", `
always_log_filename: true
default_log_level: warn
max_identifier_length: 21
print_trailing_semicolons: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		AlwaysLogFilename:       true,
		DefaultLogLevel:         "warn",
		MaxIdentifierLength:     21,
		PrintTrailingSemicolons: true,
	}, cfg)
}

func TestLoadJSONKeepsDefaults(t *testing.T) {
	path := writeFile(t, "logmagic.json", `{"print_trailing_semicolons": true}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "log", cfg.DefaultLogLevel)
	assert.True(t, cfg.PrintTrailingSemicolons)
	assert.Zero(t, cfg.MaxIdentifierLength)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOGMAGIC_DEFAULT_LOG_LEVEL", "debug")
	t.Setenv("LOGMAGIC_MAX_IDENTIFIER_LENGTH", "12")

	path := writeFile(t, "logmagic.yaml", "default_log_level: info\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.DefaultLogLevel)
	assert.Equal(t, 12, cfg.MaxIdentifierLength)
	assert.Equal(t, []string{"log", "info", "warn", "error", "debug"}, cfg.Levels())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, "logmagic.yaml", "max_identifier_length: -1\n")
	_, err := Load(path)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "max_identifier_length", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"default", *Default(), ""},
		{"custom level", Config{DefaultLogLevel: "trace"}, ""},
		{"empty level", Config{}, "default_log_level"},
		{"bad level", Config{DefaultLogLevel: "no way"}, "default_log_level"},
		{"negative length", Config{DefaultLogLevel: "log", MaxIdentifierLength: -3}, "max_identifier_length"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()
	cfg := &Config{AlwaysLogFilename: true, MaxIdentifierLength: 9}
	opts := cfg.RenderOptions()
	assert.True(t, opts.AlwaysLogFilename)
	assert.Equal(t, 9, opts.MaxIdentifierLength)
	assert.False(t, opts.PrintTrailingSemicolons)
}
