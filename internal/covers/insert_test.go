package covers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestInsertFromFile(t *testing.T) {
	dir := t.TempDir()
	coverData := pngBytes(t, 400, 600)
	coverPath := filepath.Join(dir, "cover.png")
	if err := os.WriteFile(coverPath, coverData, 0644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(filepath.Join(dir, "cache"))
	id := Identity{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"}

	storedPath, err := Insert(context.Background(), cache, InsertRequest{
		Identity: id,
		FilePath: coverPath,
	})
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	// The original extension is preserved.
	if filepath.Base(storedPath) != "9780441013593.png" {
		t.Errorf("stored path = %q, want 9780441013593.png", storedPath)
	}

	got, ok := cache.Lookup("9780441013593")
	if !ok || !bytes.Equal(got, coverData) {
		t.Error("cache does not hold the inserted bytes")
	}
}

func TestInsertSmallImageWarnsButSucceeds(t *testing.T) {
	dir := t.TempDir()
	tiny := pngBytes(t, 10, 10)
	tinyPath := filepath.Join(dir, "tiny.png")
	if err := os.WriteFile(tinyPath, tiny, 0644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(filepath.Join(dir, "cache"))
	id := Identity{Title: "Tiny Book", Author: "Small Author"}

	if _, err := Insert(context.Background(), cache, InsertRequest{Identity: id, FilePath: tinyPath}); err != nil {
		t.Fatalf("Insert() rejected a small manual cover: %v", err)
	}

	// A subsequent fetch trusts the cache and returns those exact bytes,
	// even though 10x10 is below the automatic threshold.
	fetcher := NewFetcherWithSources(cache)
	result := fetcher.Fetch(context.Background(), id)
	if !result.Found || result.Source != SourceCache {
		t.Fatalf("Fetch() = found=%v source=%q, want cache hit", result.Found, result.Source)
	}
	if !bytes.Equal(result.Data, tiny) {
		t.Error("Fetch() returned different bytes than inserted")
	}
}

func TestInsertFromURL(t *testing.T) {
	coverData := jpegBytes(t, 400, 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(coverData)
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	id := Identity{ISBN: "9780441013593"}

	storedPath, err := Insert(context.Background(), cache, InsertRequest{
		Identity: id,
		URL:      server.URL + "/covers/dune.jpg?size=large",
	})
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	// Extension comes from the URL path, not the query string.
	if filepath.Ext(storedPath) != ".jpg" {
		t.Errorf("stored path = %q, want .jpg extension", storedPath)
	}
}

func TestInsertReplacesPreviousExtension(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, "cache"))
	id := Identity{ISBN: "9780441013593"}

	// An automatic fetch left a .jpg behind.
	if err := cache.Store(CacheKey(id), jpegBytes(t, 400, 600), ".jpg"); err != nil {
		t.Fatal(err)
	}

	replacement := pngBytes(t, 500, 750)
	pngPath := filepath.Join(dir, "better.png")
	if err := os.WriteFile(pngPath, replacement, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Insert(context.Background(), cache, InsertRequest{Identity: id, FilePath: pngPath}); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	// The stale .jpg is gone; the lookup finds only the new bytes.
	if _, err := os.Stat(filepath.Join(cache.Dir(), "9780441013593.jpg")); !os.IsNotExist(err) {
		t.Error("stale .jpg still present after re-insertion")
	}
	got, ok := cache.Lookup("9780441013593")
	if !ok || !bytes.Equal(got, replacement) {
		t.Error("lookup does not return the replacement bytes")
	}
}

func TestInsertFailures(t *testing.T) {
	dir := t.TempDir()

	notImage := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notImage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer badServer.Close()

	tests := []struct {
		name string
		req  InsertRequest
	}{
		{
			name: "neither url nor file",
			req:  InsertRequest{Identity: Identity{Title: "X"}},
		},
		{
			name: "both url and file",
			req:  InsertRequest{Identity: Identity{Title: "X"}, URL: "http://example.com/a.jpg", FilePath: notImage},
		},
		{
			name: "missing local file",
			req:  InsertRequest{Identity: Identity{Title: "X"}, FilePath: filepath.Join(dir, "missing.jpg")},
		},
		{
			name: "undecodable content",
			req:  InsertRequest{Identity: Identity{Title: "X"}, FilePath: notImage},
		},
		{
			name: "download failure",
			req:  InsertRequest{Identity: Identity{Title: "X"}, URL: badServer.URL + "/gone.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(filepath.Join(t.TempDir(), "cache"))

			if _, err := Insert(context.Background(), cache, tt.req); err == nil {
				t.Fatal("Insert() succeeded, want error")
			}

			// A failed insert never mutates the cache.
			entries, _ := cache.Entries()
			if len(entries) != 0 {
				t.Errorf("cache gained %d file(s) on a failed insert", len(entries))
			}
		})
	}
}
