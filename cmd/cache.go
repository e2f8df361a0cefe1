package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/readstack/covergen/internal/covers"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the cover cache",
		Long: `The cover cache is a flat directory of image files, one per book, named by
cache key. Automatic fetches only ever add to it; these commands let you
inspect what is cached and insert covers by hand when the lookup services
get one wrong or find nothing.`,
	}

	cmd.AddCommand(newCacheInsertCmd())
	cmd.AddCommand(newCacheListCmd())

	return cmd
}

func newCacheInsertCmd() *cobra.Command {
	var (
		title    string
		author   string
		isbn     string
		coverURL string
		filePath string
		cacheDir string
	)

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a cover into the cache by hand",
		Long: `Insert places a cover image into the cache for a specific book, overriding
whatever an automatic fetch found (or failed to find). The image comes from
a URL or a local file; it must be decodable, but unlike automatic fetches a
small image is accepted with a warning.`,
		Example: `  # Replace a bad automatic result
  covergen cache insert --isbn 9780441013593 --url https://example.com/dune.jpg

  # Insert a local scan for a book without an ISBN
  covergen cache insert --title "Some Obscure Book" --author "J. Doe" --file ./scan.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && isbn == "" {
				return fmt.Errorf("provide --isbn or --title/--author to identify the book")
			}
			if (coverURL == "") == (filePath == "") {
				return fmt.Errorf("provide exactly one of --url or --file")
			}

			path, err := covers.Insert(cmd.Context(), covers.NewCache(cacheDir), covers.InsertRequest{
				Identity: covers.Identity{Title: title, Author: author, ISBN: isbn},
				URL:      coverURL,
				FilePath: filePath,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Cover inserted: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().StringVar(&isbn, "isbn", "", "Book ISBN (10 or 13)")
	cmd.Flags().StringVar(&coverURL, "url", "", "URL to download the cover from")
	cmd.Flags().StringVar(&filePath, "file", "", "Local image file to insert")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "covers_cache", "Directory for cached cover images")

	return cmd
}

func newCacheListCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached covers with their dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := covers.NewCache(cacheDir)
			entries, err := cache.Entries()
			if err != nil {
				return fmt.Errorf("failed to scan cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Printf("Cache is empty: %s\n", cacheDir)
				return nil
			}

			for _, entry := range entries {
				data, err := os.ReadFile(entry.Path)
				if err != nil {
					fmt.Printf("  %-40s unreadable: %v\n", filepath.Base(entry.Path), err)
					continue
				}

				width, height, err := covers.Validate(data)
				switch {
				case errors.Is(err, covers.ErrTooSmall):
					fmt.Printf("  %-40s %dx%d (below threshold)\n", filepath.Base(entry.Path), width, height)
				case err != nil:
					fmt.Printf("  %-40s not a decodable image\n", filepath.Base(entry.Path))
				default:
					fmt.Printf("  %-40s %dx%d\n", filepath.Base(entry.Path), width, height)
				}
			}

			fmt.Printf("%d cover(s) in %s\n", len(entries), cacheDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "covers_cache", "Directory for cached cover images")

	return cmd
}
