package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	// Keep a real user config file from leaking into tests.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 3*time.Second, cfg.SweepInterval)
	assert.Equal(t, 11025, cfg.Note.SampleRate)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
backend: "null"
sweep_interval: 250ms
decode_cache_ttl: 0s
note:
  sample_rate: 22050
shell:
  enabled: false
log:
  level: debug
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "null", cfg.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.SweepInterval)
	assert.Equal(t, time.Duration(0), cfg.DecodeCacheTTL)
	assert.Equal(t, 22050, cfg.Note.SampleRate)
	assert.Equal(t, time.Minute, cfg.Note.MaxDuration)
	assert.False(t, cfg.Shell.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "note:\n  sample_rate: 22050\n")
	t.Setenv("SOUNDSHELL_NOTE_SAMPLE_RATE", "8000")
	t.Setenv("SOUNDSHELL_BACKEND", "null")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Note.SampleRate)
	assert.Equal(t, "null", cfg.Backend)
}

func TestFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SOUNDSHELL_BACKEND", "oto")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.Bool("tui", false, "")
	require.NoError(t, flags.Parse([]string{"--backend", "null", "--tui"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "null", cfg.Backend)
	assert.True(t, cfg.UI.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "alsa" }, "unknown backend"},
		{"zero sweep", func(c *Config) { c.SweepInterval = 0 }, "sweep_interval"},
		{"negative cache ttl", func(c *Config) { c.DecodeCacheTTL = -time.Second }, "decode_cache_ttl"},
		{"zero note rate", func(c *Config) { c.Note.SampleRate = 0 }, "note.sample_rate"},
		{"zero device rate", func(c *Config) { c.SampleRate = 0 }, "sample_rate"},
		{"shell without program", func(c *Config) { c.Shell.Program = "" }, "shell.program"},
		{"disabled shell without program", func(c *Config) { c.Shell.Enabled = false; c.Shell.Program = "" }, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
