package shamela

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const baseURL = "https://shamela.ws"

// Client fetches book pages from the Shamela library.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a Shamela client. timeout bounds each page fetch.
func NewClient(userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		logger:     logger.With().Str("component", "shamela").Logger(),
	}
}

// FetchPage downloads and parses one book page.
func (c *Client) FetchPage(ctx context.Context, bookID, pageNum int) (*Page, error) {
	url := fmt.Sprintf("%s/book/%d/%d", baseURL, bookID, pageNum)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	page, err := ParsePage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	c.logger.Debug().
		Int("bookId", bookID).
		Int("page", pageNum).
		Int("entries", len(page.Entries)).
		Msg("page fetched")

	return page, nil
}

// PageURL returns the canonical URL of a book page, stored as the source
// reference on imported hadiths.
func PageURL(bookID, pageNum int) string {
	return fmt.Sprintf("%s/book/%d/%d", baseURL, bookID, pageNum)
}
