package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultOpenLibraryBaseURL is the production Open Library Covers API host.
const DefaultOpenLibraryBaseURL = "https://covers.openlibrary.org"

// minCoverBytes guards against Open Library's habit of answering unknown
// ISBNs with a 1x1 placeholder instead of an HTTP error. The dimension gate
// in Validate is the real check; this just avoids decoding obvious junk.
const minCoverBytes = 1000

// OpenLibrarySource fetches covers from the Open Library Covers API by ISBN.
type OpenLibrarySource struct {
	BaseURL    string
	httpClient *http.Client
}

// NewOpenLibrarySource creates an Open Library source using the given HTTP
// client for all requests.
func NewOpenLibrarySource(httpClient *http.Client) *OpenLibrarySource {
	return &OpenLibrarySource{
		BaseURL:    DefaultOpenLibraryBaseURL,
		httpClient: httpClient,
	}
}

func (s *OpenLibrarySource) Name() string {
	return "open-library"
}

func (s *OpenLibrarySource) Applicable(id Identity) bool {
	return digitsOnly(id.ISBN) != ""
}

func (s *OpenLibrarySource) Fetch(ctx context.Context, id Identity) ([]byte, error) {
	// Open Library Covers API: https://covers.openlibrary.org/b/isbn/{ISBN}-L.jpg
	url := fmt.Sprintf("%s/b/isbn/%s-L.jpg", s.BaseURL, digitsOnly(id.ISBN))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover API returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover data: %w", err)
	}

	if len(imageData) < minCoverBytes {
		return nil, fmt.Errorf("cover image too small (likely placeholder)")
	}

	return imageData, nil
}
