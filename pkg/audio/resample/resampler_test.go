package resample

import (
	"math"
	"testing"
)

func sine(frames, channels, rate int) []float64 {
	out := make([]float64, frames*channels)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
		for ch := 0; ch < channels; ch++ {
			out[i*channels+ch] = v
		}
	}
	return out
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name           string
		in, out, chans int
	}{
		{"zero input rate", 0, 44100, 2},
		{"negative output rate", 44100, -1, 2},
		{"zero channels", 44100, 48000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.in, tt.out, tt.chans); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEqualRatesPassThrough(t *testing.T) {
	r, err := New(44100, 44100, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	in := sine(100, 2, 44100)
	out, err := r.Process(in)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestRatio(t *testing.T) {
	r, err := New(11025, 44100, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := r.Ratio(); got != 4 {
		t.Errorf("expected ratio 4, got %v", got)
	}
}

func TestUpsample(t *testing.T) {
	r, err := New(11025, 44100, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := r.Process(sine(11025, 2, 11025))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if want := 44100 * 2; len(out) != want {
		t.Errorf("expected %d samples, got %d", want, len(out))
	}
}

func TestStereoChannelsStaySeparate(t *testing.T) {
	r, err := New(22050, 44100, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Constant +0.5 on the left and -0.5 on the right.
	const frames = 551
	in := make([]float64, frames*2)
	for i := 0; i < frames; i++ {
		in[i*2] = 0.5
		in[i*2+1] = -0.5
	}

	out, err := r.Process(in)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if want := 1102 * 2; len(out) != want {
		t.Fatalf("expected %d samples, got %d", want, len(out))
	}

	mid := len(out) / 4 * 2
	left, right := out[mid], out[mid+1]
	if math.Abs(left-0.5) > 0.05 || math.Abs(right+0.5) > 0.05 {
		t.Errorf("mid frame L=%.3f R=%.3f, want L=0.5 R=-0.5", left, right)
	}
}

func TestProcessIsRepeatable(t *testing.T) {
	r, err := New(8000, 44100, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	in := sine(800, 1, 8000)
	first, err := r.Process(in)
	if err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	second, err := r.Process(in)
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}
	if len(first) != r.OutputFrames(800) || len(second) != len(first) {
		t.Fatalf("expected %d samples twice, got %d and %d", r.OutputFrames(800), len(first), len(second))
	}
	for i := range first {
		if math.Abs(first[i]-second[i]) > 1e-9 {
			t.Fatalf("sample %d differs between clips: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestProcessRejectsPartialFrames(t *testing.T) {
	r, err := New(22050, 44100, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := r.Process([]float64{0, 0, 0}); err == nil {
		t.Error("expected error for a partial frame")
	}
}
