package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// InsertRequest describes a manual cover insertion: the identity to key the
// cover under, and exactly one of URL or FilePath as the image source.
type InsertRequest struct {
	Identity Identity
	URL      string
	FilePath string
}

// Insert places a user-supplied cover into the cache, bypassing the lookup
// sources. Unlike the automatic path, failures here are returned to the
// caller: a manual insert is an explicit action that deserves explicit
// feedback. Undecodable content is an error and leaves the cache untouched;
// an image below the automatic size threshold is inserted anyway with a
// warning, since manual intent overrides the placeholder heuristic. Any
// previous file for the key is replaced. Returns the stored path.
func Insert(ctx context.Context, cache *Cache, req InsertRequest) (string, error) {
	var data []byte
	var ext string
	var err error

	switch {
	case req.URL != "" && req.FilePath != "":
		return "", fmt.Errorf("provide a URL or a file path, not both")
	case req.URL != "":
		data, ext, err = downloadCover(ctx, req.URL)
	case req.FilePath != "":
		data, err = os.ReadFile(req.FilePath)
		if err != nil {
			err = fmt.Errorf("failed to read cover file: %w", err)
		}
		ext = strings.ToLower(filepath.Ext(req.FilePath))
	default:
		return "", fmt.Errorf("provide a URL or a file path")
	}
	if err != nil {
		return "", err
	}

	width, height, err := Validate(data)
	if err != nil {
		if !errors.Is(err, ErrTooSmall) {
			return "", fmt.Errorf("cover is not a usable image: %w", err)
		}
		slog.Warn("Cover is below the automatic acceptance threshold, inserting anyway",
			"width", width, "height", height, "min", MinDimension)
	}

	if ext == "" {
		ext = ".jpg"
	}

	key := CacheKey(req.Identity)
	if err := cache.Remove(key); err != nil {
		return "", err
	}
	if err := cache.Store(key, data, ext); err != nil {
		return "", err
	}

	storedPath := filepath.Join(cache.Dir(), key+ext)
	slog.Info("Inserted cover", "key", key, "path", storedPath, "width", width, "height", height)
	return storedPath, nil
}

func downloadCover(ctx context.Context, coverURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download cover: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cover data: %w", err)
	}

	return data, extensionFromURL(coverURL), nil
}

// extensionFromURL extracts a file extension from the URL path, ignoring any
// query string. Empty when the path has none.
func extensionFromURL(coverURL string) string {
	u, err := url.Parse(coverURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}
