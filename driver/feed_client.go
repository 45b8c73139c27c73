// ABOUTME: HTTP client for fetching and parsing RSS/Atom feeds
// ABOUTME: Fetches with the configured UA then hands the body to gofeed
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const defaultUserAgent = "news-optimizer/1.0 (+feed-ingestor)"

type FeedClient struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

func NewFeedClient(timeout time.Duration, userAgent string, logger *slog.Logger) *FeedClient {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &FeedClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Fetch retrieves and parses one feed. Fetching is separated from parsing so
// the transport controls timeout and headers instead of gofeed's defaults.
func (c *FeedClient) Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching feed %s: unexpected status %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	c.logger.Debug("feed fetched", "url", feedURL, "items", len(feed.Items))
	return feed, nil
}
