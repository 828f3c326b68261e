// ABOUTME: Oto-based audio backend implementation
// ABOUTME: One oto player per bound source, fed from a resampled stereo copy of the buffer
package output

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/decode"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/encode"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/resample"
)

const otoChannels = 2

// oto allows one context per process, so every Oto backend shares it.
var (
	otoMu      sync.Mutex
	otoCtx     *oto.Context
	otoRate    int
	otoSuspend bool
)

// Oto is a Backend that plays through the system's default audio device.
type Oto struct {
	*engine
}

// NewOto creates an oto backend rendering at sampleRate Hz.
func NewOto(sampleRate int, logger *slog.Logger) *Oto {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oto{engine: newEngine(&otoDriver{sampleRate: sampleRate, logger: logger}, logger)}
}

type otoDriver struct {
	sampleRate int
	logger     *slog.Logger
	opened     int
}

func (d *otoDriver) open(name string) error {
	otoMu.Lock()
	defer otoMu.Unlock()

	if name != "" {
		d.logger.Info("oto always drives the default device", "requested", name)
	}

	if otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   d.sampleRate,
			ChannelCount: otoChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-ready
		otoCtx = ctx
		otoRate = d.sampleRate
		d.logger.Info("audio output initialized", "sample_rate", d.sampleRate, "channels", otoChannels)
	} else if otoRate != d.sampleRate {
		d.logger.Warn("oto context already running at a different rate, keeping it",
			"running", otoRate, "requested", d.sampleRate)
	}

	if otoSuspend {
		if err := otoCtx.Resume(); err != nil {
			return fmt.Errorf("failed to resume oto context: %w", err)
		}
		otoSuspend = false
	}
	d.opened++
	return nil
}

func (d *otoDriver) close() error {
	otoMu.Lock()
	defer otoMu.Unlock()

	d.opened--
	if d.opened > 0 || otoCtx == nil || otoSuspend {
		return nil
	}
	if err := otoCtx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	otoSuspend = true
	return nil
}

// prepare converts data to interleaved stereo s16le at the context rate.
func (d *otoDriver) prepare(format Format, data []byte, sampleRate int) (any, error) {
	dec, err := decode.NewPCM(format.BitsPerSample())
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	samples, err := dec.Decode(data)
	if err != nil {
		return nil, err
	}
	if format.Channels() == 1 {
		samples = monoToStereo(samples)
	}

	otoMu.Lock()
	rate := otoRate
	otoMu.Unlock()
	if rate == 0 {
		rate = d.sampleRate
	}

	if sampleRate != rate && len(samples) > 0 {
		r, err := resample.New(sampleRate, rate, otoChannels)
		if err != nil {
			return nil, err
		}
		if samples, err = r.Process(samples); err != nil {
			return nil, err
		}
	}

	enc, err := encode.NewPCM(16)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.Encode(samples)
}

func monoToStereo(samples []float64) []float64 {
	out := make([]float64, len(samples)*2)
	for i, s := range samples {
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

func (d *otoDriver) newVoice(payload any) (voice, error) {
	otoMu.Lock()
	ctx := otoCtx
	otoMu.Unlock()
	if ctx == nil {
		return nil, errors.New("oto context not initialized")
	}

	r := &loopReader{data: payload.([]byte)}
	return &otoVoice{player: ctx.NewPlayer(r), reader: r}, nil
}

type otoVoice struct {
	player *oto.Player
	reader *loopReader
}

func (v *otoVoice) Play()  { v.player.Play() }
func (v *otoVoice) Pause() { v.player.Pause() }

func (v *otoVoice) Rewind() {
	// Seek also drops samples the player has already buffered.
	_, _ = v.player.Seek(0, io.SeekStart)
}

func (v *otoVoice) SetLooping(looping bool) { v.reader.looping.Store(looping) }
func (v *otoVoice) SetGain(gain float32)    { v.player.SetVolume(float64(gain)) }
func (v *otoVoice) Done() bool              { return !v.player.IsPlaying() }
func (v *otoVoice) Close() error            { return v.player.Close() }

// loopReader serves a byte slice, wrapping to the start while looping is set.
type loopReader struct {
	mu      sync.Mutex
	data    []byte
	pos     int
	looping atomic.Bool
}

func (r *loopReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.data) {
		if !r.looping.Load() || len(r.data) == 0 {
			return 0, io.EOF
		}
		r.pos = 0
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *loopReader) Seek(offset int64, whence int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.pos) + offset
	case io.SeekEnd:
		abs = int64(len(r.data)) + offset
	default:
		return 0, fmt.Errorf("loopReader: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("loopReader: negative position")
	}
	r.pos = int(min(abs, int64(len(r.data))))
	return abs, nil
}
