package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGoogleBooksBaseURL is the production Google Books API host.
const DefaultGoogleBooksBaseURL = "https://www.googleapis.com"

// GoogleBooksSource fetches covers via the Google Books volumes API, either
// by ISBN or by a title/author free-text query. The search response carries
// image links of various sizes; the largest available one is downloaded.
type GoogleBooksSource struct {
	BaseURL    string
	ByTitle    bool
	httpClient *http.Client
}

// NewGoogleBooksSource creates a Google Books source. With byTitle false the
// source queries by ISBN and skips books without one; with byTitle true it
// queries by title and author and applies to every book.
func NewGoogleBooksSource(httpClient *http.Client, byTitle bool) *GoogleBooksSource {
	return &GoogleBooksSource{
		BaseURL:    DefaultGoogleBooksBaseURL,
		ByTitle:    byTitle,
		httpClient: httpClient,
	}
}

func (s *GoogleBooksSource) Name() string {
	if s.ByTitle {
		return "google-books-title"
	}
	return "google-books-isbn"
}

func (s *GoogleBooksSource) Applicable(id Identity) bool {
	if s.ByTitle {
		return id.Title != ""
	}
	return digitsOnly(id.ISBN) != ""
}

func (s *GoogleBooksSource) Fetch(ctx context.Context, id Identity) ([]byte, error) {
	searchURL := fmt.Sprintf("%s/books/v1/volumes?q=%s", s.BaseURL, url.QueryEscape(s.query(id)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query Google Books API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google Books API returned status %d", resp.StatusCode)
	}

	var result struct {
		TotalItems int `json:"totalItems"`
		Items      []struct {
			VolumeInfo struct {
				Title      string            `json:"title"`
				ImageLinks map[string]string `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("no volumes found")
	}

	imageURL := pickImageLink(result.Items[0].VolumeInfo.ImageLinks)
	if imageURL == "" {
		return nil, fmt.Errorf("top volume has no image links")
	}

	imageURL = normalizeImageURL(imageURL)
	slog.Debug("Downloading Google Books cover", "source", s.Name(), "url", imageURL)

	return s.download(ctx, imageURL)
}

func (s *GoogleBooksSource) query(id Identity) string {
	if !s.ByTitle {
		return "isbn:" + digitsOnly(id.ISBN)
	}
	q := fmt.Sprintf("intitle:%q", id.Title)
	if id.Author != "" {
		q += fmt.Sprintf("+inauthor:%q", id.Author)
	}
	return q
}

func (s *GoogleBooksSource) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) < minCoverBytes {
		return nil, fmt.Errorf("image too small (likely placeholder)")
	}

	return imageData, nil
}

// pickImageLink returns the largest image link offered by a volume.
func pickImageLink(links map[string]string) string {
	for _, size := range []string{"extraLarge", "large", "medium", "thumbnail", "smallThumbnail"} {
		if u := links[size]; u != "" {
			return u
		}
	}
	return ""
}

// normalizeImageURL upgrades Google-hosted links to https, strips the
// page-curl effect, and asks for a larger render than the thumbnail zoom.
func normalizeImageURL(raw string) string {
	u := raw
	if strings.HasPrefix(u, "http://books.google.com") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	u = strings.ReplaceAll(u, "&edge=curl", "")
	u = strings.ReplaceAll(u, "zoom=1", "zoom=3")
	return u
}
