// ABOUTME: HTTP client for the durable media-storage service
// ABOUTME: Uploads binary content at a caller-chosen path and returns the public URL
package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"news-optimizer/config"
)

type uploadResponse struct {
	URL string `json:"url"`
}

// MediaStorageClient uploads re-hosted article images.
type MediaStorageClient struct {
	host    string
	apiPath string
	client  *http.Client
	logger  *slog.Logger
}

func NewMediaStorageClient(cfg *config.StorageConfig, logger *slog.Logger) *MediaStorageClient {
	return &MediaStorageClient{
		host:    cfg.Host,
		apiPath: cfg.APIPath,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Upload stores data under path and returns the stable public URL.
func (c *MediaStorageClient) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("upload payload cannot be empty")
	}

	endpoint := c.host + c.apiPath + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("media storage error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}

	if parsed.URL == "" {
		return "", fmt.Errorf("media storage returned an empty URL")
	}

	return parsed.URL, nil
}
