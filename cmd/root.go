package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pitchscribe/constants"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pitchscribe",
	Short: "Turns pitch model activations into MIDI",
	Long: `pitchscribe decodes the contour, frame and onset activations of a
polyphonic pitch model into notes with pitch bends and writes them as MIDI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrap(err, "bad log level")
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "log level (debug, info, warn, error)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
