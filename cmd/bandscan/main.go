// Command bandscan runs the Schumann color-band analysis on a local JPEG.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "bandscan",
		Short:         "Measure color band proportions in spectrogram images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newBandsCmd())
	return root
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("bandscan failed")
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
