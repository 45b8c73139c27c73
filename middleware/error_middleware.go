// ABOUTME: Centralized error handling middleware for Echo framework
// ABOUTME: Maps domain errors to consistent HTTP responses, hides internal details
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"news-optimizer/domain"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CustomHTTPErrorHandler creates the centralized HTTP error handler for Echo.
//
// Error handling priority:
// 1. Domain errors - mapped to stable status codes and safe messages
// 2. echo.HTTPError - preserves Echo's status, sanitizes 5xx messages
// 3. Unknown errors - generic 500 response to hide internal details
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, response := classify(err)

		if status >= 500 {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err)
		} else {
			logger.Warn("request rejected",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err)
		}

		if err := c.JSON(status, response); err != nil {
			logger.Error("failed to send error response", "error", err)
		}
	}
}

func classify(err error) (int, ErrorResponse) {
	var poolErr *domain.PoolExhaustedError
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		return http.StatusNotFound, response("ARTICLE_NOT_FOUND", "Article not found")

	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, response("INVALID_REQUEST", "Invalid request format")

	case errors.Is(err, domain.ErrArticleContentEmpty):
		return http.StatusBadRequest, response("CONTENT_EMPTY", "Article has no content to process")

	case errors.Is(err, domain.ErrSiteConfigMissing):
		return http.StatusBadRequest, response("SITE_CONFIG_MISSING", "Site configuration not found")

	case errors.Is(err, domain.ErrNoFeedSources):
		return http.StatusBadRequest, response("NO_FEED_SOURCES", "No feed sources registered")

	case errors.Is(err, domain.ErrNoCredentials):
		return http.StatusBadRequest, response("NO_CREDENTIALS", "No credentials registered for this provider")

	case errors.As(err, &poolErr):
		return http.StatusBadGateway, response("PROVIDER_UNAVAILABLE", poolErr.Error())

	case errors.As(err, &httpErr):
		msg := "An error occurred"
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		if httpErr.Code >= 500 {
			msg = "An unexpected error occurred. Please try again later."
		}
		return httpErr.Code, response("HTTP_ERROR", msg)

	default:
		return http.StatusInternalServerError,
			response("INTERNAL_ERROR", "An unexpected error occurred. Please try again later.")
	}
}

func response(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
