package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/GajjarKashyap/Audio/config"
	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/core/provider"
	"github.com/GajjarKashyap/Audio/core/search"
	"github.com/GajjarKashyap/Audio/logger"
)

// searchCmd runs one aggregated search from the terminal, useful for
// checking provider connectivity without starting the server.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the enabled providers from the command line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Init(logger.Config{Level: "warn"})

		ex := extractor.NewCmdExtractor(cfg.YtdlpPath)
		var providers []provider.Provider
		if cfg.EnableYouTube {
			providers = append(providers, provider.NewYouTubeProvider(ex))
		}
		if cfg.EnableJioSaavn {
			providers = append(providers, provider.NewJioSaavnProvider(""))
		}
		if cfg.EnableSoundCloud {
			providers = append(providers, provider.NewSoundCloudProvider(ex))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		query := strings.Join(args, " ")
		tracks, err := search.NewAggregator(providers...).Search(ctx, query)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tID\tTITLE\tARTIST\tDURATION")
		for _, t := range tracks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%ds\n", t.Source, t.ID, t.Title, t.Artist, t.Duration)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
