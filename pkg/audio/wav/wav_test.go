// ABOUTME: Tests for the WAV codec
// ABOUTME: Round-trips, rejection cases and cross-checks against go-audio/wav
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
)

// buildWAV assembles a header field by field so tests can corrupt any of them.
func buildWAV(t *testing.T, mutate func(h *Header), data []byte) []byte {
	t.Helper()
	h := Header{
		ChunkSize:     uint32(36 + len(data)),
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    8000,
		ByteRate:      16000,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2Size: uint32(len(data)),
	}
	copy(h.ChunkID[:], "RIFF")
	copy(h.Format[:], "WAVE")
	copy(h.Subchunk1ID[:], "fmt ")
	copy(h.Subchunk2ID[:], "data")
	if mutate != nil {
		mutate(&h)
	}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	buf.Write(data)
	return buf.Bytes()
}

func TestParseMinimal(t *testing.T) {
	raw := buildWAV(t, nil, []byte{0x01, 0x00, 0xff, 0x7f})

	d, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, uint(1), d.Channels)
	assert.Equal(t, uint(16), d.BitsPerSample)
	assert.Equal(t, uint(8000), d.SampleRate)
	assert.Equal(t, []byte{0x01, 0x00, 0xff, 0x7f}, d.Data)
}

func TestParseIgnoresTrailingBytes(t *testing.T) {
	raw := append(buildWAV(t, nil, []byte{1, 2}), 0xde, 0xad)

	d, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, d.Data)
}

func TestParseEmptyData(t *testing.T) {
	d, err := Parse(bytes.NewReader(buildWAV(t, nil, nil)))
	require.NoError(t, err)
	assert.Empty(t, d.Data)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *Header)
		data   []byte
	}{
		{"wrong riff tag", func(h *Header) { copy(h.ChunkID[:], "RIFX") }, nil},
		{"wrong wave tag", func(h *Header) { copy(h.Format[:], "AVI ") }, nil},
		{"wrong fmt tag", func(h *Header) { copy(h.Subchunk1ID[:], "LIST") }, nil},
		{"wrong data tag", func(h *Header) { copy(h.Subchunk2ID[:], "fact") }, nil},
		{"non-pcm format", func(h *Header) { h.AudioFormat = 3 }, nil},
		{"extensible format", func(h *Header) { h.AudioFormat = 0xFFFE }, nil},
		{"declared size exceeds stream", func(h *Header) { h.Subchunk2Size = 1000 }, []byte{1, 2}},
		{"partial 16-bit sample", func(h *Header) { h.Subchunk2Size = 3 }, []byte{1, 2, 3}},
		{"huge declared size", func(h *Header) { h.Subchunk2Size = 0xFFFFFFFF }, []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(buildWAV(t, tt.mutate, tt.data)))
			assert.True(t, errors.Is(err, ErrMalformedContainer), "got %v", err)
		})
	}
}

func TestParseTruncatedHeader(t *testing.T) {
	raw := buildWAV(t, nil, nil)
	for _, n := range []int{0, 4, 43} {
		_, err := Parse(bytes.NewReader(raw[:n]))
		assert.True(t, errors.Is(err, ErrMalformedContainer), "len %d: got %v", n, err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParseReadFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Parse(failingReader{err: boom})

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrMalformedContainer))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestSerializeWriteFailure(t *testing.T) {
	err := Serialize(failingWriter{}, audio.Decoded{Channels: 1, BitsPerSample: 8, SampleRate: 8000})

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}

func TestSerializeRecomputesDerivedFields(t *testing.T) {
	d := audio.Decoded{Channels: 2, BitsPerSample: 16, SampleRate: 44100, Data: make([]byte, 8)}

	h, err := ReadHeader(bytes.NewReader(Marshal(d)))
	require.NoError(t, err)
	assert.Equal(t, uint32(44), h.ChunkSize)
	assert.Equal(t, uint32(16), h.Subchunk1Size)
	assert.Equal(t, uint32(176400), h.ByteRate)
	assert.Equal(t, uint16(4), h.BlockAlign)
	assert.Equal(t, uint32(8), h.Subchunk2Size)
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		channels := rapid.UintRange(1, 8).Draw(t, "channels")
		bits := rapid.SampledFrom([]uint{8, 16, 24, 32}).Draw(t, "bits")
		rate := rapid.UintRange(1, 192000).Draw(t, "rate")
		samples := rapid.IntRange(0, 256).Draw(t, "samples")
		data := rapid.SliceOfN(rapid.Byte(), samples*int(bits/8), samples*int(bits/8)).Draw(t, "data")

		in := audio.Decoded{Channels: channels, BitsPerSample: bits, SampleRate: rate, Data: data}
		raw := Marshal(in)
		if len(raw) != HeaderSize+len(data) {
			t.Fatalf("serialized length %d, want %d", len(raw), HeaderSize+len(data))
		}

		out, err := Parse(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !out.Equal(in) {
			t.Fatalf("round trip mismatch: %v vs %v", out, in)
		}
	})
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in, err := audio.Tone(440, 0.1, 11025, 8)
	require.NoError(t, err)

	require.NoError(t, WriteFile(path, in))
	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, out.Equal(in))
}

func TestReadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.wav")
	_, err := ReadFile(path)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFileBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir.wav")
	err := WriteFile(path, audio.Decoded{Channels: 1, BitsPerSample: 8, SampleRate: 8000})

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
}

func TestSerializeReadableByGoAudio(t *testing.T) {
	data := make([]byte, 0, 8)
	for _, s := range []int16{0, 1000, -1000, 32767} {
		data = binary.LittleEndian.AppendUint16(data, uint16(s))
	}
	in := audio.Decoded{Channels: 1, BitsPerSample: 16, SampleRate: 22050, Data: data}

	dec := gowav.NewDecoder(bytes.NewReader(Marshal(in)))
	require.True(t, dec.IsValidFile())

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 22050, buf.Format.SampleRate)
	assert.Equal(t, []int{0, 1000, -1000, 32767}, buf.Data)
}

func TestParseReadsGoAudioOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := gowav.NewEncoder(f, 16000, 16, 2, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 16000},
		Data:           []int{1, -1, 256, -256},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	d, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint(2), d.Channels)
	assert.Equal(t, uint(16), d.BitsPerSample)
	assert.Equal(t, uint(16000), d.SampleRate)

	want := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x01, 0x00, 0xff}
	assert.Equal(t, want, d.Data)
}
