// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Decoded PCM value and tone synthesis
// Package audio provides the decoded PCM value used throughout soundshell.
//
// A Decoded value carries raw sample bytes plus the format needed to play
// them back:
//   - Channels: 1 (mono) or 2 (stereo) for playback
//   - BitsPerSample: 8 (unsigned) or 16 (signed little-endian) for playback
//   - SampleRate: frames per second
//
// Values are produced by the wav codec or by Tone, and consumed read-only by
// the playback layer and the codec's serializer.
//
// Example:
//
//	beep, err := audio.Tone(440, 0.5, 11025, 8)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(beep) // 1ch 8-bit 11025Hz (500ms)
package audio
