// ABOUTME: Tests for audio types
// ABOUTME: Tests validation and derived format values of Decoded
package audio

import (
	"errors"
	"testing"
	"time"
)

func TestNewValidatesSampleAlignment(t *testing.T) {
	tests := []struct {
		name    string
		bits    uint
		size    int
		wantErr bool
	}{
		{"8-bit any length", 8, 7, false},
		{"16-bit even", 16, 8, false},
		{"16-bit odd", 16, 7, true},
		{"24-bit aligned", 24, 9, false},
		{"24-bit partial", 24, 10, true},
		{"empty", 16, 0, false},
		{"zero width with data", 0, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(1, tt.bits, 8000, make([]byte, tt.size))
			if tt.wantErr {
				if !errors.Is(err, ErrPartialSample) {
					t.Errorf("expected ErrPartialSample, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDerivedRates(t *testing.T) {
	d := Decoded{Channels: 2, BitsPerSample: 16, SampleRate: 44100, Data: make([]byte, 44100*4)}

	if got := d.BlockAlign(); got != 4 {
		t.Errorf("expected block align 4, got %d", got)
	}
	if got := d.ByteRate(); got != 176400 {
		t.Errorf("expected byte rate 176400, got %d", got)
	}
	if got := d.Frames(); got != 44100 {
		t.Errorf("expected 44100 frames, got %d", got)
	}
	if got := d.Duration(); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
}

func TestDurationZeroRate(t *testing.T) {
	d := Decoded{Channels: 1, BitsPerSample: 8, Data: []byte{1, 2, 3}}
	if d.Duration() != 0 {
		t.Errorf("expected zero duration, got %v", d.Duration())
	}
}

func TestEqual(t *testing.T) {
	a := Decoded{Channels: 1, BitsPerSample: 8, SampleRate: 8000, Data: []byte{1, 2}}
	b := Decoded{Channels: 1, BitsPerSample: 8, SampleRate: 8000, Data: []byte{1, 2}}

	if !a.Equal(b) {
		t.Error("expected identical values to be equal")
	}

	b.SampleRate = 8001
	if a.Equal(b) {
		t.Error("expected different sample rates to differ")
	}
}
