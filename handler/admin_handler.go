// ABOUTME: Admin endpoints for feed sources and provider credentials
// ABOUTME: All mutations are idempotent updates of the site configuration
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"news-optimizer/domain"
	"news-optimizer/repository"
)

// FeedRequest represents the request body for feed source changes
type FeedRequest struct {
	URL string `json:"url" validate:"required"`
}

// CredentialRequest represents the request body for credential pool changes
type CredentialRequest struct {
	Provider string `json:"provider" validate:"required"`
	Key      string `json:"key" validate:"required"`
}

// AdminHandler handles site configuration requests
type AdminHandler struct {
	sites  repository.SiteRepository
	logger *slog.Logger
}

func NewAdminHandler(sites repository.SiteRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{sites: sites, logger: logger}
}

// HandleAddFeed handles POST /api/v1/feeds requests
func (h *AdminHandler) HandleAddFeed(c echo.Context) error {
	feedURL, err := h.bindFeedURL(c)
	if err != nil {
		return err
	}

	if err := h.sites.AddFeedSource(c.Request().Context(), feedURL); err != nil {
		return err
	}

	h.logger.Info("feed source added", "url", feedURL)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "url": feedURL})
}

// HandleRemoveFeed handles DELETE /api/v1/feeds requests
func (h *AdminHandler) HandleRemoveFeed(c echo.Context) error {
	feedURL, err := h.bindFeedURL(c)
	if err != nil {
		return err
	}

	if err := h.sites.RemoveFeedSource(c.Request().Context(), feedURL); err != nil {
		return err
	}

	h.logger.Info("feed source removed", "url", feedURL)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "url": feedURL})
}

// HandleAddCredential handles POST /api/v1/credentials requests
func (h *AdminHandler) HandleAddCredential(c echo.Context) error {
	provider, key, err := h.bindCredential(c)
	if err != nil {
		return err
	}

	if err := h.sites.AddCredential(c.Request().Context(), provider, key); err != nil {
		return err
	}

	// Never log the key itself.
	h.logger.Info("credential added", "provider", provider)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "provider": provider})
}

// HandleRemoveCredential handles DELETE /api/v1/credentials requests
func (h *AdminHandler) HandleRemoveCredential(c echo.Context) error {
	provider, key, err := h.bindCredential(c)
	if err != nil {
		return err
	}

	if err := h.sites.RemoveCredential(c.Request().Context(), provider, key); err != nil {
		return err
	}

	h.logger.Info("credential removed", "provider", provider)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "provider": provider})
}

func (h *AdminHandler) bindFeedURL(c echo.Context) (string, error) {
	var req FeedRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	feedURL := strings.TrimSpace(req.URL)
	if feedURL == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Feed URL cannot be empty")
	}
	parsed, err := url.Parse(feedURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Feed URL must be an absolute http(s) URL")
	}
	return feedURL, nil
}

func (h *AdminHandler) bindCredential(c echo.Context) (domain.Provider, string, error) {
	var req CredentialRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	provider, ok := domain.ParseProvider(req.Provider)
	if !ok {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "Unknown provider")
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "Credential key cannot be empty")
	}
	return provider, key, nil
}
