// ABOUTME: tone subcommand writing a synthesized sine tone to a WAV file
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/soundshell/internal/config"
	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/wav"
)

var (
	toneBits uint
	toneRate uint
)

var toneCmd = &cobra.Command{
	Use:   "tone <freq> <seconds> <out.wav>",
	Short: "Write a mono sine tone to a WAV file",
	Args:  cobra.ExactArgs(3),
	RunE:  runTone,
}

func init() {
	toneCmd.Flags().UintVar(&toneBits, "bits", 8, "bits per sample: 8 or 16")
	toneCmd.Flags().UintVar(&toneRate, "rate", uint(config.Defaults().Note.SampleRate), "sample rate in Hz")
	rootCmd.AddCommand(toneCmd)
}

func runTone(cmd *cobra.Command, args []string) error {
	freq, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("frequency %q: %w", args[0], err)
	}
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("duration %q: %w", args[1], err)
	}
	if limit := cfg.Note.MaxDuration.Seconds(); seconds > limit {
		return fmt.Errorf("duration %gs exceeds %gs (note.max_duration)", seconds, limit)
	}

	d, err := audio.Tone(freq, seconds, toneRate, toneBits)
	if err != nil {
		return err
	}
	if err := wav.WriteFile(args[2], d); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[2], d)
	return nil
}
