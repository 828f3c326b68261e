// ABOUTME: Root cobra command running an interactive playback session
// ABOUTME: Loads configuration, sets up logging and picks the audio backend
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/soundshell/internal/app"
	"github.com/Resonate-Protocol/soundshell/internal/config"
	"github.com/Resonate-Protocol/soundshell/internal/console"
	"github.com/Resonate-Protocol/soundshell/internal/shell"
	"github.com/Resonate-Protocol/soundshell/internal/ui"
	"github.com/Resonate-Protocol/soundshell/internal/version"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "soundshell",
	Short: "Interactive command-driven sound player",
	Long: `soundshell reads commands line by line and plays WAV files and tones.

Commands: play <file>, pause/resume/stop/state <name>, repeat <name> [true|false],
note <freq> <seconds>, list, save <name> <path>. Other lines are passed to the
shell; an empty line ends the session.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runSession,
}

func init() {
	defaults := config.Defaults()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/soundshell/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", defaults.Log.File, "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level=debug")

	rootCmd.Flags().String("backend", defaults.Backend, "audio backend: oto or null")
	rootCmd.Flags().String("device", defaults.Device, "output device name")
	rootCmd.Flags().Bool("tui", defaults.UI.Enabled, "run with the terminal UI")

	cobra.OnFinalize(closeLog)
}

// sessionError marks errors the session has already reported to its output.
type sessionError struct{ err error }

func (e *sessionError) Error() string { return e.err.Error() }
func (e *sessionError) Unwrap() error { return e.err }

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var reported *sessionError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded
	if verbose {
		cfg.Log.Level = "debug"
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		w = f
	} else if cfg.UI.Enabled {
		// The screen belongs to the TUI.
		w = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func newBackend(c config.Config, logger *slog.Logger) (output.Backend, error) {
	switch c.Backend {
	case "oto":
		return output.NewOto(c.SampleRate, logger), nil
	case "null":
		return output.NewNull(logger), nil
	}
	return nil, fmt.Errorf("unknown backend %q (valid: oto, null)", c.Backend)
}

func newShell(c config.Config, stdout, stderr io.Writer) shell.Runner {
	if !c.Shell.Enabled {
		return shell.Disabled{}
	}
	return &shell.Exec{
		Program: c.Shell.Program,
		Args:    c.Shell.Args,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	backend, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting session", "version", version.Version, "backend", cfg.Backend, "tui", cfg.UI.Enabled)

	if cfg.UI.Enabled {
		err = runTUI(ctx, backend, logger)
	} else {
		out := console.NewWriter(cmd.OutOrStdout())
		err = app.New(app.Options{
			Config:  cfg,
			Backend: backend,
			Input:   console.NewReader(cmd.InOrStdin()),
			Output:  out,
			Shell:   newShell(cfg, out, cmd.ErrOrStderr()),
			Logger:  logger,
		}).Run(ctx)
	}
	if err != nil {
		return &sessionError{err: err}
	}
	return nil
}

func runTUI(ctx context.Context, backend output.Backend, logger *slog.Logger) error {
	c := ui.NewConsole()
	out := console.NewWriter(c)
	session := app.New(app.Options{
		Config:  cfg,
		Backend: backend,
		Input:   c,
		Output:  out,
		Shell:   newShell(cfg, out, out),
		Logger:  logger,
	})

	prog := ui.Run(c, session.Sounds().Snapshot, cfg.UI.RefreshInterval)
	done := make(chan error, 1)
	go func() {
		_, err := prog.Run()
		// Leaving the TUI ends the session.
		c.Close()
		done <- err
	}()

	err := session.Run(ctx)
	prog.Quit()
	if uiErr := <-done; uiErr != nil {
		logger.Warn("tui exited with error", "error", uiErr)
	}
	return err
}
