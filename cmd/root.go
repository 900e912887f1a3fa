package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GajjarKashyap/Audio/server"
)

var rootCmd = &cobra.Command{
	Use:   "audio",
	Short: "Audio is a personal music aggregator and streaming server.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
