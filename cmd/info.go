// ABOUTME: info subcommand printing the header of a WAV file
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/soundshell/pkg/audio/wav"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the header of a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return &wav.IOError{Op: "open", Path: path, Err: err}
	}
	h, err := wav.ReadHeader(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// Full parse so a truncated data chunk is reported too.
	d, err := wav.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:         %s\n", path)
	fmt.Fprintf(out, "container:    %s/%s\n", h.ChunkID[:], h.Format[:])
	fmt.Fprintf(out, "channels:     %d\n", h.NumChannels)
	fmt.Fprintf(out, "sample rate:  %d Hz\n", h.SampleRate)
	fmt.Fprintf(out, "bits:         %d\n", h.BitsPerSample)
	fmt.Fprintf(out, "byte rate:    %d\n", h.ByteRate)
	fmt.Fprintf(out, "block align:  %d\n", h.BlockAlign)
	fmt.Fprintf(out, "data size:    %d bytes\n", h.Subchunk2Size)
	fmt.Fprintf(out, "duration:     %s\n", d.Duration())
	return nil
}
