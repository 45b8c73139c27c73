// ABOUTME: Fallback article-body fetcher for feeds that ship empty items
// ABOUTME: Downloads the linked page and extracts readable HTML with go-readability
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
)

type PageClient struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

func NewPageClient(timeout time.Duration, userAgent string, logger *slog.Logger) *PageClient {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &PageClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// ExtractContent fetches the page at link and returns the readable article
// body as HTML.
func (c *PageClient) ExtractContent(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing article link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching page %s: unexpected status %d", link, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extracting content from %s: %w", link, err)
	}

	var buf strings.Builder
	if err := article.RenderHTML(&buf); err != nil {
		return "", fmt.Errorf("rendering content from %s: %w", link, err)
	}

	content := strings.TrimSpace(buf.String())
	c.logger.Debug("page content extracted", "url", link, "chars", len(content))
	return content, nil
}
