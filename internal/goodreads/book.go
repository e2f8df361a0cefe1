package goodreads

import (
	"strconv"
	"strings"
)

// Book represents one row of a Goodreads library export.
type Book struct {
	Title    string `parquet:"title"`
	Author   string `parquet:"author"`
	ISBN     string `parquet:"isbn"`
	ISBN13   string `parquet:"isbn13"`
	DateRead string `parquet:"date_read"`
}

// BestISBN returns the cleaned ISBN13 if available, otherwise the ISBN10.
func (b Book) BestISBN() string {
	if isbn := CleanISBN(b.ISBN13); isbn != "" {
		return isbn
	}
	return CleanISBN(b.ISBN)
}

// ReadYear parses the year out of the Date Read column (YYYY/MM/DD format).
// Reports false when the date is missing or garbled.
func (b Book) ReadYear() (int, bool) {
	date := strings.TrimSpace(b.DateRead)
	if date == "" {
		return 0, false
	}
	year, err := strconv.Atoi(strings.SplitN(date, "/", 2)[0])
	if err != nil {
		return 0, false
	}
	return year, true
}

// CleanISBN strips the ="..." wrapper Goodreads puts around ISBN columns,
// along with hyphens and surrounding whitespace.
func CleanISBN(value string) string {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "=")
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return strings.TrimSpace(cleaned)
}
