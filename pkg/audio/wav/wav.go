// ABOUTME: Canonical 44-byte-header PCM WAV codec
// ABOUTME: Parses and serializes audio.Decoded values losslessly
package wav

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
)

const (
	// HeaderSize is the length of the fixed RIFF/fmt/data header.
	HeaderSize = 44

	// FormatPCM is the only audio format code the codec accepts.
	FormatPCM = 1

	fmtChunkSize = 16
)

// Header mirrors the fixed little-endian header layout.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // declared, not validated on read
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// ReadHeader reads and validates the 44-byte header.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, malformed("truncated header")
		}
		return Header{}, &IOError{Op: "read", Err: err}
	}

	var h Header
	copy(h.ChunkID[:], raw[0:4])
	h.ChunkSize = binary.LittleEndian.Uint32(raw[4:8])
	copy(h.Format[:], raw[8:12])
	copy(h.Subchunk1ID[:], raw[12:16])
	h.Subchunk1Size = binary.LittleEndian.Uint32(raw[16:20])
	h.AudioFormat = binary.LittleEndian.Uint16(raw[20:22])
	h.NumChannels = binary.LittleEndian.Uint16(raw[22:24])
	h.SampleRate = binary.LittleEndian.Uint32(raw[24:28])
	h.ByteRate = binary.LittleEndian.Uint32(raw[28:32])
	h.BlockAlign = binary.LittleEndian.Uint16(raw[32:34])
	h.BitsPerSample = binary.LittleEndian.Uint16(raw[34:36])
	copy(h.Subchunk2ID[:], raw[36:40])
	h.Subchunk2Size = binary.LittleEndian.Uint32(raw[40:44])

	switch {
	case string(h.ChunkID[:]) != "RIFF":
		return Header{}, malformed("container tag %q", h.ChunkID[:])
	case string(h.Format[:]) != "WAVE":
		return Header{}, malformed("format tag %q", h.Format[:])
	case string(h.Subchunk1ID[:]) != "fmt ":
		return Header{}, malformed("format chunk tag %q", h.Subchunk1ID[:])
	case h.AudioFormat != FormatPCM:
		return Header{}, malformed("audio format %d (only linear PCM is supported)", h.AudioFormat)
	case string(h.Subchunk2ID[:]) != "data":
		return Header{}, malformed("data chunk tag %q", h.Subchunk2ID[:])
	}

	return h, nil
}

// Parse reads a header followed by exactly the declared number of sample bytes.
func Parse(r io.Reader) (audio.Decoded, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return audio.Decoded{}, err
	}

	// Grow with the data actually present instead of trusting the declared size.
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, int64(h.Subchunk2Size))
	if err != nil && !errors.Is(err, io.EOF) {
		return audio.Decoded{}, &IOError{Op: "read", Err: err}
	}
	if n < int64(h.Subchunk2Size) {
		return audio.Decoded{}, malformed("data chunk declares %d bytes, stream holds %d", h.Subchunk2Size, n)
	}

	d, err := audio.New(uint(h.NumChannels), uint(h.BitsPerSample), uint(h.SampleRate), buf.Bytes())
	if err != nil {
		return audio.Decoded{}, malformed("%v", err)
	}
	return d, nil
}

// Serialize writes d with size, byte rate and block align recomputed from its format.
func Serialize(w io.Writer, d audio.Decoded) error {
	sampleBytes := uint32(d.BitsPerSample / 8)
	dataSize := uint32(len(d.Data))

	header := make([]byte, HeaderSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], FormatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(d.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(d.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(d.SampleRate)*uint32(d.Channels)*sampleBytes)
	binary.LittleEndian.PutUint16(header[32:34], uint16(uint32(d.Channels)*sampleBytes))
	binary.LittleEndian.PutUint16(header[34:36], uint16(d.BitsPerSample))

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	if _, err := w.Write(d.Data); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// Marshal returns the serialized container as a byte slice.
func Marshal(d audio.Decoded) []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(d.Data))
	// bytes.Buffer writes cannot fail
	_ = Serialize(&buf, d)
	return buf.Bytes()
}

// ReadFile opens path and parses its contents.
func ReadFile(path string) (audio.Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Decoded{}, &IOError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	d, err := Parse(bufio.NewReader(f))
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		ioErr.Path = path
	}
	return d, err
}

// WriteFile creates or truncates path and serializes d into it.
func WriteFile(path string, d audio.Decoded) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	if err := Serialize(w, d); err != nil {
		_ = f.Close()
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
