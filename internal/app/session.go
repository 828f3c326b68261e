// ABOUTME: Interactive playback session orchestration
// ABOUTME: Owns device, context and sounds; runs the command loop and the sweeper
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Resonate-Protocol/soundshell/internal/config"
	"github.com/Resonate-Protocol/soundshell/internal/console"
	"github.com/Resonate-Protocol/soundshell/internal/registry"
	"github.com/Resonate-Protocol/soundshell/internal/shell"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/output"
	"github.com/Resonate-Protocol/soundshell/pkg/sound"
)

// Options wires a Session to its collaborators.
type Options struct {
	Config  config.Config
	Backend output.Backend
	Input   console.LineReader
	Output  io.Writer // a *console.Writer is used as is, so a shell can share it
	Shell   shell.Runner // nil disables pass-through
	Logger  *slog.Logger
}

// Session reads commands line by line and plays sounds on one device.
type Session struct {
	cfg     config.Config
	backend output.Backend
	in      console.LineReader
	out     *console.Writer
	shell   shell.Runner
	loader  *Loader
	sounds  *registry.Registry
	logger  *slog.Logger
}

// New creates a session. Nothing is opened until Run.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := opts.Shell
	if runner == nil {
		runner = shell.Disabled{}
	}
	out, ok := opts.Output.(*console.Writer)
	if !ok {
		out = console.NewWriter(opts.Output)
	}
	return &Session{
		cfg:     opts.Config,
		backend: opts.Backend,
		in:      opts.Input,
		out:     out,
		shell:   runner,
		loader:  NewLoader(opts.Config.DecodeCacheTTL),
		sounds:  registry.New(logger),
		logger:  logger,
	}
}

// Sounds returns the live sound registry.
func (s *Session) Sounds() *registry.Registry { return s.sounds }

// Run opens the device, processes input until an empty line, end of input
// or ctx cancellation, then tears everything down: sweeper first, then
// sounds, then the context and finally the device.
func (s *Session) Run(ctx context.Context) (err error) {
	dev, err := sound.OpenDevice(s.backend, s.cfg.Device)
	if err != nil {
		return s.fatal(fmt.Errorf("open device: %w", err))
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			s.logger.Warn("device close failed", "error", cerr)
		}
	}()

	actx, err := sound.NewContext(dev)
	if err != nil {
		return s.fatal(fmt.Errorf("create context: %w", err))
	}
	defer func() {
		if cerr := actx.Close(); cerr != nil {
			s.logger.Warn("context close failed", "error", cerr)
		}
	}()
	if err := actx.MakeCurrent(); err != nil {
		return s.fatal(fmt.Errorf("make context current: %w", err))
	}
	s.logger.Info("session started", "device", dev.Name(), "sweep_interval", s.cfg.SweepInterval)

	defer func() {
		if cerr := s.sounds.Close(); cerr != nil {
			s.logger.Warn("sound release failed", "error", cerr)
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.sweep(sweepCtx, s.cfg.SweepInterval)
	}()
	defer func() {
		stopSweep()
		wg.Wait()
	}()

	defer func() {
		if r := recover(); r != nil {
			err = s.fatal(fmt.Errorf("panic: %v", r))
		}
	}()

	for {
		line, rerr := s.in.ReadLine(ctx)
		if errors.Is(rerr, console.ErrLineTooLong) {
			s.logger.Debug("input line discarded", "error", rerr)
			_ = s.out.Println(rerr.Error())
			continue
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) || errors.Is(rerr, context.Canceled) {
				s.logger.Info("session ended", "reason", rerr)
				return nil
			}
			return s.fatal(fmt.Errorf("read input: %w", rerr))
		}
		if strings.TrimSpace(line) == "" {
			s.logger.Info("session ended", "reason", "empty line")
			return nil
		}
		s.execute(ctx, line)
	}
}

func (s *Session) fatal(err error) error {
	s.logger.Error("session error", "error", err)
	_ = s.out.Printf("session error: %v", err)
	return err
}

// sweep evicts stopped sounds every interval until ctx ends.
func (s *Session) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, name := range s.sounds.EvictStopped() {
				_ = s.out.Println("deleting", name)
			}
		}
	}
}
