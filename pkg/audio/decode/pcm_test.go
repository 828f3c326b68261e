// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 8-bit and 16-bit PCM decoding
package decode

import (
	"errors"
	"testing"
)

func TestNewPCM(t *testing.T) {
	for _, bits := range []int{8, 16} {
		decoder, err := NewPCM(bits)
		if err != nil {
			t.Fatalf("failed to create %d-bit decoder: %v", bits, err)
		}
		if decoder == nil {
			t.Fatal("expected decoder to be created")
		}
	}
}

func TestPCMDecode8Bit(t *testing.T) {
	decoder, err := NewPCM(8)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output, err := decoder.Decode([]byte{0, 128, 192, 255})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	expected := []float64{-1, 0, 0.5, 127.0 / 128}
	if len(output) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(output))
	}
	for i := range expected {
		if output[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], output[i])
		}
	}
}

func TestPCMDecode16Bit(t *testing.T) {
	decoder, err := NewPCM(16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0x4000 = 16384, 0x8000 = -32768 (little-endian)
	output, err := decoder.Decode([]byte{0x00, 0x40, 0x00, 0x80})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(output) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(output))
	}
	if output[0] != 0.5 {
		t.Errorf("expected first sample 0.5, got %v", output[0])
	}
	if output[1] != -1 {
		t.Errorf("expected second sample -1, got %v", output[1])
	}
}

func TestPCMDecode16BitPartialSample(t *testing.T) {
	decoder, err := NewPCM(16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	_, err = decoder.Decode([]byte{0x00, 0x40, 0x00})
	if !errors.Is(err, ErrPartialSample) {
		t.Errorf("expected ErrPartialSample, got %v", err)
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	decoder, err := NewPCM(24)
	if err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}

	if decoder != nil {
		t.Fatal("expected decoder to be nil for unsupported bit depth")
	}

	expectedError := "unsupported bit depth: 24 (supported: 8, 16)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	decoder, err := NewPCM(16)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	output, err := decoder.Decode([]byte{})
	if err != nil {
		t.Fatalf("decode failed with empty input: %v", err)
	}

	if len(output) != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", len(output))
	}
}
