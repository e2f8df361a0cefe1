package goodreads

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `Book Id,Title,Author,ISBN,ISBN13,My Rating,Date Read,Bookshelves
1,Dune,Frank Herbert,="0441013597",="9780441013593",5,2025/03/14,read
2,Dune Messiah,Frank Herbert,="",="",4,2024/11/02,read
3,Children of Dune,Frank Herbert,="0399128964",="9780399128967",4,,read
4,God Emperor of Dune,Frank Herbert,="0399126384",="9780399126383",3,not a date,read
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	loader := NewLoader(writeSample(t, "export.csv", sampleCSV))

	books, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("Load() count = %d, want 4", len(books))
	}

	first := books[0]
	if first.Title != "Dune" || first.Author != "Frank Herbert" {
		t.Errorf("first book = %q by %q", first.Title, first.Author)
	}
	if got := first.BestISBN(); got != "9780441013593" {
		t.Errorf("BestISBN() = %q, want 9780441013593", got)
	}
	if got := books[1].BestISBN(); got != "" {
		t.Errorf("BestISBN() for empty columns = %q, want empty", got)
	}
}

func TestLoadYear(t *testing.T) {
	loader := NewLoader(writeSample(t, "export.csv", sampleCSV))

	books, err := loader.LoadYear(2025)
	if err != nil {
		t.Fatalf("LoadYear() error: %v", err)
	}

	// Only the 2025 book survives; missing and garbled dates are excluded.
	if len(books) != 1 {
		t.Fatalf("LoadYear() count = %d, want 1", len(books))
	}
	if books[0].Title != "Dune" {
		t.Errorf("LoadYear() kept %q, want Dune", books[0].Title)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	csv := "Title,Author\nDune,Frank Herbert\n"
	loader := NewLoader(writeSample(t, "export.csv", csv))

	books, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(books) != 1 || books[0].ISBN13 != "" {
		t.Errorf("Load() = %+v, want one book with empty ISBN columns", books)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	loader := NewLoader(writeSample(t, "export.xlsx", "whatever"))

	if _, err := loader.Load(); err == nil {
		t.Error("Load() succeeded on an unsupported format")
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.csv"))

	if _, err := loader.Load(); err == nil {
		t.Error("Load() succeeded on a missing file")
	}
}
