// ABOUTME: HTTP client for the DeepL-style translation provider
// ABOUTME: Maps quota statuses (429/456) to domain.ErrQuotaExceeded for pool fallback
package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"news-optimizer/config"
	"news-optimizer/domain"
)

const translatePath = "/v2/translate"

type translateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// TranslatorAPIClient calls the translation provider with one credential per
// request. Credential selection lives in the keypool executor, not here.
type TranslatorAPIClient struct {
	host       string
	targetLang string
	client     *http.Client
	logger     *slog.Logger
}

func NewTranslatorAPIClient(cfg *config.TranslatorConfig, logger *slog.Logger) *TranslatorAPIClient {
	return &TranslatorAPIClient{
		host:       cfg.Host,
		targetLang: cfg.TargetLang,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Translate sends text to the provider and returns the translated text.
func (c *TranslatorAPIClient) Translate(ctx context.Context, text, apiKey string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Text:       []string{text},
		TargetLang: c.targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+translatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	// 456 is the provider's "character quota exceeded" status.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 456 {
		return "", fmt.Errorf("translator returned status %d: %w", resp.StatusCode, domain.ErrQuotaExceeded)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translator API error: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse translator response: %w", err)
	}

	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("translator response has no translations: %w", domain.ErrInvalidProviderResponse)
	}

	return parsed.Translations[0].Text, nil
}
