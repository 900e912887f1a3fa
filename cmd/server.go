package cmd

import (
	"github.com/spf13/cobra"

	"github.com/GajjarKashyap/Audio/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the aggregator's HTTP server, serving the API and the web UI.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
