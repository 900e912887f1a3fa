package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GajjarKashyap/Audio/config"
	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/logger"
)

// resolveCmd resolves one track page URL to its direct audio URL,
// bypassing the cache. Handy when debugging extraction failures.
var resolveCmd = &cobra.Command{
	Use:   "resolve <page-url>",
	Short: "Resolve a track page URL to a direct audio URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Init(logger.Config{Level: "warn"})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ex := extractor.NewCmdExtractor(cfg.YtdlpPath)
		url, err := ex.Resolve(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
