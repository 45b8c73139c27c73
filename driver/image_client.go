// ABOUTME: Downloads article images for re-hosting on durable storage
// ABOUTME: Caps payload size so a hostile feed cannot exhaust memory
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type ImageClient struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

func NewImageClient(timeout time.Duration, maxBytes int64, userAgent string, logger *slog.Logger) *ImageClient {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ImageClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Download fetches one image and returns its bytes and content type. Images
// larger than the configured cap are rejected.
func (c *ImageClient) Download(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building image request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("downloading image %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("downloading image %s: unexpected status %d", src, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("downloading image %s: not an image (%s)", src, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading image %s: %w", src, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("image %s exceeds %d bytes", src, c.maxBytes)
	}

	c.logger.Debug("image downloaded", "src", src, "bytes", len(data))
	return data, contentType, nil
}
