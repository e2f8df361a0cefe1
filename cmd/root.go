package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "covergen",
		Short: "Generate a book cover collage from a reading list",
		Long: `Covergen turns a Goodreads library export into a collage of book covers.

Covers are fetched from Open Library and Google Books and cached on disk,
so repeated runs only download what is missing. Books without a findable
cover are rendered as labeled placeholder tiles.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newCacheCmd())

	return cmd
}
