package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/readstack/covergen/internal/collage"
	"github.com/readstack/covergen/internal/covers"
	"github.com/readstack/covergen/internal/goodreads"
)

func newGenerateCmd() *cobra.Command {
	var (
		output        string
		year          int
		cacheDir      string
		configPath    string
		width         int
		height        int
		columns       int
		padding       int
		margin        int
		background    string
		title         string
		titleColor    string
		titlePosition string
		titleSize     int
	)

	cmd := &cobra.Command{
		Use:   "generate <export-file>",
		Short: "Fetch covers and render a collage from a reading list",
		Long: `Generate reads a Goodreads library export (.csv or .parquet), fetches a
cover for every book, and renders them into a single collage image.

Covers are looked up on Open Library and Google Books and cached under the
cache directory, so re-running only downloads what is missing. Books without
a findable cover appear as placeholder tiles labeled with title and author.`,
		Example: `  # Collage of everything in the export
  covergen generate goodreads_library_export.csv

  # Only books finished in 2025, with a banner
  covergen generate goodreads_library_export.csv --year 2025 --title "Read in 2025"

  # Reuse saved collage settings
  covergen generate goodreads_library_export.csv --config collage.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportPath := args[0]
			if _, err := os.Stat(exportPath); os.IsNotExist(err) {
				return fmt.Errorf("export file not found: %s", exportPath)
			}

			cfg := collage.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = collage.LoadConfig(configPath); err != nil {
					return err
				}
			}

			// Explicit flags override the config file.
			flags := cmd.Flags()
			if flags.Changed("width") {
				cfg.Width = width
			}
			if flags.Changed("height") {
				cfg.Height = height
			}
			if flags.Changed("columns") {
				cfg.Columns = columns
			}
			if flags.Changed("padding") {
				cfg.Padding = padding
			}
			if flags.Changed("margin") {
				cfg.Margin = margin
			}
			if flags.Changed("background") {
				cfg.Background = background
			}
			if flags.Changed("title") {
				cfg.Title = title
			}
			if flags.Changed("title-color") {
				cfg.TitleColor = titleColor
			}
			if flags.Changed("title-position") {
				cfg.TitlePosition = titlePosition
			}
			if flags.Changed("title-size") {
				cfg.TitleSize = titleSize
			}

			return executeGenerate(cmd.Context(), exportPath, output, year, cacheDir, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "collage.png", "Output image path")
	cmd.Flags().IntVar(&year, "year", 0, "Only include books finished in this year")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "covers_cache", "Directory for cached cover images")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with collage settings")
	cmd.Flags().IntVar(&width, "width", 1440, "Collage width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Collage height in pixels (derived from rows if omitted)")
	cmd.Flags().IntVar(&columns, "columns", 7, "Number of columns in the grid")
	cmd.Flags().IntVar(&padding, "padding", 20, "Padding between covers in pixels")
	cmd.Flags().IntVar(&margin, "margin", 40, "Outer margin in pixels")
	cmd.Flags().StringVar(&background, "background", "#ffffff", "Background color (hex)")
	cmd.Flags().StringVar(&title, "title", "", "Title text overlay")
	cmd.Flags().StringVar(&titleColor, "title-color", "#000000", "Title text color (hex)")
	cmd.Flags().StringVar(&titlePosition, "title-position", "top", "Title position (top or bottom)")
	cmd.Flags().IntVar(&titleSize, "title-size", 48, "Title font size")

	return cmd
}

func executeGenerate(ctx context.Context, exportPath, output string, year int, cacheDir string, cfg collage.Config) error {
	loader := goodreads.NewLoader(exportPath)

	var books []goodreads.Book
	var err error
	if year != 0 {
		books, err = loader.LoadYear(year)
	} else {
		books, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load reading list: %w", err)
	}
	if len(books) == 0 {
		if year != 0 {
			return fmt.Errorf("no books found for year %d", year)
		}
		return fmt.Errorf("no books found in %s", exportPath)
	}

	slog.Info("Loaded reading list", "books", len(books), "year", year)

	fetcher := covers.NewFetcher(covers.NewCache(cacheDir))
	bar := progressbar.Default(int64(len(books)), "fetching covers")

	items := make([]collage.Item, 0, len(books))
	var missing []goodreads.Book
	for _, book := range books {
		result := fetcher.Fetch(ctx, covers.Identity{
			Title:  book.Title,
			Author: book.Author,
			ISBN:   book.BestISBN(),
		})

		item := collage.Item{Book: book}
		if result.Found {
			item.Cover = result.Data
		} else {
			missing = append(missing, book)
		}
		items = append(items, item)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(missing) > 0 {
		fmt.Printf("Warning: %d cover(s) not found (will show as placeholders):\n", len(missing))
		for i, book := range missing {
			if i == 5 {
				fmt.Printf("  ... and %d more\n", len(missing)-5)
				break
			}
			fmt.Printf("  - %s by %s\n", book.Title, book.Author)
		}
	}
	fmt.Printf("Fetched %d of %d covers\n", len(books)-len(missing), len(books))

	failedToLoad, err := collage.Generate(items, cfg, output)
	if len(failedToLoad) > 0 {
		fmt.Printf("Warning: %d cached image(s) failed to load:\n", len(failedToLoad))
		for i, book := range failedToLoad {
			if i == 5 {
				fmt.Printf("  ... and %d more\n", len(failedToLoad)-5)
				break
			}
			fmt.Printf("  - %s by %s\n", book.Title, book.Author)
		}
		fmt.Printf("Try deleting these from %s and re-running.\n", cacheDir)
	}
	if err != nil {
		return fmt.Errorf("failed to generate collage: %w", err)
	}

	fmt.Printf("Collage saved to: %s\n", output)
	return nil
}
