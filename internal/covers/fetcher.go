package covers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// requestTimeout bounds every outbound HTTP request. A timed-out source is
// treated the same as a source with no cover.
const requestTimeout = 10 * time.Second

// Fetcher resolves cover images for book identities: cache first, then each
// lookup source in priority order until one produces a validated image.
type Fetcher struct {
	cache   *Cache
	sources []Source
}

// NewFetcher creates a fetcher over cache with the standard source order:
// Open Library by ISBN, Google Books by ISBN, Google Books by title/author.
func NewFetcher(cache *Cache) *Fetcher {
	client := &http.Client{Timeout: requestTimeout}
	return NewFetcherWithSources(cache,
		NewOpenLibrarySource(client),
		NewGoogleBooksSource(client, false),
		NewGoogleBooksSource(client, true),
	)
}

// NewFetcherWithSources creates a fetcher with an explicit source list.
func NewFetcherWithSources(cache *Cache, sources ...Source) *Fetcher {
	return &Fetcher{cache: cache, sources: sources}
}

// Cache returns the underlying cache store.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// Fetch resolves the cover for id. A cached cover is returned as-is without
// re-validation: whatever is in the cache is trusted, including manual
// inserts below the automatic size threshold. On a miss, sources are tried
// strictly in order; each gets exactly one attempt, and a source whose image
// fails validation is treated as if it had found nothing. The first accepted
// image is persisted and returned. Exhausting every source is a normal
// outcome, reported through Result.Found rather than an error.
func (f *Fetcher) Fetch(ctx context.Context, id Identity) Result {
	key := CacheKey(id)

	if data, ok := f.cache.Lookup(key); ok {
		slog.Debug("Cover cache hit", "key", key, "title", id.Title)
		return Result{Found: true, Data: data, Source: SourceCache}
	}

	for _, src := range f.sources {
		if !src.Applicable(id) {
			continue
		}

		data, err := src.Fetch(ctx, id)
		if err != nil {
			slog.Debug("Source lookup failed", "source", src.Name(), "title", id.Title, "error", err)
			continue
		}

		width, height, err := Validate(data)
		if err != nil {
			slog.Debug("Rejected cover", "source", src.Name(), "title", id.Title, "error", err)
			continue
		}

		// A failed write is not fatal: the cover is still usable this
		// run, it just will not be cached for the next one.
		if err := f.cache.Store(key, data, ".jpg"); err != nil {
			slog.Warn("Failed to cache cover", "key", key, "error", err)
		}

		slog.Info("Fetched cover", "source", src.Name(), "title", id.Title,
			"width", width, "height", height)
		return Result{Found: true, Data: data, Source: src.Name()}
	}

	slog.Debug("No cover found", "title", id.Title, "author", id.Author)
	return Result{}
}
