// ABOUTME: Configuration for soundshell
// ABOUTME: Defaults, YAML file, SOUNDSHELL_* environment and flags merged with viper
// Package config provides configuration types, defaults and loading for soundshell.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Resonate-Protocol/soundshell/internal/shell"
)

// EnvPrefix prefixes environment overrides, e.g. SOUNDSHELL_NOTE_SAMPLE_RATE.
const EnvPrefix = "SOUNDSHELL"

// Config holds all configuration options for soundshell.
type Config struct {
	Backend        string        `mapstructure:"backend"` // "oto" or "null"
	Device         string        `mapstructure:"device"`
	SampleRate     int           `mapstructure:"sample_rate"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	DecodeCacheTTL time.Duration `mapstructure:"decode_cache_ttl"` // 0 disables caching
	Note           NoteConfig    `mapstructure:"note"`
	Shell          ShellConfig   `mapstructure:"shell"`
	Log            LogConfig     `mapstructure:"log"`
	UI             UIConfig      `mapstructure:"ui"`
}

// NoteConfig controls tone synthesis for the note command.
type NoteConfig struct {
	SampleRate  int           `mapstructure:"sample_rate"`
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

// ShellConfig controls pass-through of unrecognized lines.
type ShellConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Program string   `mapstructure:"program"`
	Args    []string `mapstructure:"args"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UIConfig holds terminal UI options.
type UIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	prog, args := shell.DefaultProgram()
	return Config{
		Backend:        "oto",
		SampleRate:     44100,
		SweepInterval:  3 * time.Second,
		DecodeCacheTTL: 5 * time.Minute,
		Note: NoteConfig{
			SampleRate:  11025,
			MaxDuration: time.Minute,
		},
		Shell: ShellConfig{
			Enabled: true,
			Program: prog,
			Args:    args,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			RefreshInterval: 500 * time.Millisecond,
		},
	}
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"backend":   "backend",
	"device":    "device",
	"tui":       "ui.enabled",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// Load reads configuration from defaults, the config file, SOUNDSHELL_*
// environment variables and flags, in increasing precedence. An empty
// path falls back to DefaultPath when that file exists.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		if def := DefaultPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		slog.Debug("config loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("device", d.Device)
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("sweep_interval", d.SweepInterval)
	v.SetDefault("decode_cache_ttl", d.DecodeCacheTTL)
	v.SetDefault("note.sample_rate", d.Note.SampleRate)
	v.SetDefault("note.max_duration", d.Note.MaxDuration)
	v.SetDefault("shell.enabled", d.Shell.Enabled)
	v.SetDefault("shell.program", d.Shell.Program)
	v.SetDefault("shell.args", d.Shell.Args)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("ui.enabled", d.UI.Enabled)
	v.SetDefault("ui.refresh_interval", d.UI.RefreshInterval)
}

// DefaultPath returns $XDG_CONFIG_HOME/soundshell/config.yaml (or the
// platform equivalent), or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "soundshell", "config.yaml")
}

// Validate checks configuration values for errors.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case "oto", "null":
	default:
		errs = append(errs, fmt.Errorf("backend: unknown backend %q (valid: oto, null)", c.Backend))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate: must be positive, got %d", c.SampleRate))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("sweep_interval: must be positive, got %s", c.SweepInterval))
	}
	if c.DecodeCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("decode_cache_ttl: must not be negative, got %s", c.DecodeCacheTTL))
	}
	if c.Note.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("note.sample_rate: must be positive, got %d", c.Note.SampleRate))
	}
	if c.Note.MaxDuration <= 0 {
		errs = append(errs, fmt.Errorf("note.max_duration: must be positive, got %s", c.Note.MaxDuration))
	}
	if c.Shell.Enabled && c.Shell.Program == "" {
		errs = append(errs, errors.New("shell.program: required when shell.enabled is set"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.UI.Enabled && c.UI.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("ui.refresh_interval: must be positive, got %s", c.UI.RefreshInterval))
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q (valid: debug, info, warn, error)", s)
}
