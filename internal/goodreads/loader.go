package goodreads

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads a reading list from a Goodreads export. The native export is
// CSV; Parquet is also accepted for lists that have been converted.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given export file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every book in the export. The format is chosen by extension.
func (l *Loader) Load() ([]Book, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".csv":
		return l.loadCSV()
	case ".parquet":
		return l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .parquet)", ext)
	}
}

// LoadYear reads the export and keeps only books finished in the given year.
// Books with a missing or unparsable Date Read are excluded when filtering.
func (l *Loader) LoadYear(year int) ([]Book, error) {
	books, err := l.Load()
	if err != nil {
		return nil, err
	}

	var filtered []Book
	for _, b := range books {
		if y, ok := b.ReadYear(); ok && y == year {
			filtered = append(filtered, b)
		}
	}

	slog.Debug("Filtered reading list by year", "year", year, "total", len(books), "kept", len(filtered))
	return filtered, nil
}

func (l *Loader) loadCSV() ([]Book, error) {
	slog.Debug("Opening CSV export", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Goodreads rows occasionally vary
	reader.LazyQuotes = true    // ISBN columns look like ="0441013597"

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var books []Book
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		books = append(books, Book{
			Title:    field(row, "Title"),
			Author:   field(row, "Author"),
			ISBN:     field(row, "ISBN"),
			ISBN13:   field(row, "ISBN13"),
			DateRead: field(row, "Date Read"),
		})
	}

	slog.Debug("Finished reading CSV export", "total_books", len(books))
	return books, nil
}

func (l *Loader) loadParquet() ([]Book, error) {
	slog.Debug("Opening Parquet export", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Book](pf)
	defer reader.Close()

	var books []Book
	rows := make([]Book, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			books = append(books, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet export", "total_books", len(books))
	return books, nil
}
