package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/midi"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the events of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(os.Stdout, args[0])
	},
}

func inspect(w io.Writer, path string) error {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "time format: %v\n", s.TimeFormat)
	for _, e := range midi.Events(s) {
		switch e.Kind {
		case midi.Tempo:
			fmt.Fprintf(w, "%8d %-9v bpm=%.2f\n", e.Tick, e.Kind, e.BPM)
		case midi.PitchBend:
			fmt.Fprintf(w, "%8d %-9v ch=%d bend=%d\n", e.Tick, e.Kind, e.Channel, e.Bend)
		default:
			fmt.Fprintf(w, "%8d %-9v ch=%d key=%d vel=%d\n", e.Tick, e.Kind, e.Channel, e.Key, e.Velocity)
		}
	}
	return nil
}
