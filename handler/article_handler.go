// ABOUTME: Article pipeline endpoints: translate, enrich, batch, edit, fetch, delete
// ABOUTME: Single-article stage requests report skips as conflicts
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"news-optimizer/repository"
	"news-optimizer/service"
)

// BatchRequest represents the request body for batch pipeline operations
type BatchRequest struct {
	Operation string   `json:"operation" validate:"required"`
	IDs       []string `json:"ids" validate:"required"`
}

// DeleteRequest represents the request body for multi-article deletion
type DeleteRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// UpdateArticleRequest represents the request body for manual content edits
type UpdateArticleRequest struct {
	TranslatedContent string `json:"translated_content" validate:"required"`
}

// StageResponse represents the response for single-article stage operations
type StageResponse struct {
	Success   bool   `json:"success"`
	ArticleID string `json:"article_id"`
	Status    string `json:"status"`
}

// ArticleHandler handles article pipeline requests
type ArticleHandler struct {
	articles    repository.ArticleRepository
	translation service.TranslationStage
	enrichment  service.EnrichmentStage
	batch       service.BatchRunner
	logger      *slog.Logger
}

func NewArticleHandler(
	articles repository.ArticleRepository,
	translation service.TranslationStage,
	enrichment service.EnrichmentStage,
	batch service.BatchRunner,
	logger *slog.Logger,
) *ArticleHandler {
	return &ArticleHandler{
		articles:    articles,
		translation: translation,
		enrichment:  enrichment,
		batch:       batch,
		logger:      logger,
	}
}

// HandleGetArticle handles GET /api/v1/articles/:id requests
func (h *ArticleHandler) HandleGetArticle(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Article ID cannot be empty")
	}

	article, err := h.articles.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// HandleTranslate handles POST /api/v1/articles/:id/translate requests
func (h *ArticleHandler) HandleTranslate(c echo.Context) error {
	return h.runStage(c, h.translation.Translate, "translated")
}

// HandleEnrich handles POST /api/v1/articles/:id/enrich requests
func (h *ArticleHandler) HandleEnrich(c echo.Context) error {
	return h.runStage(c, h.enrichment.Enrich, "enriched")
}

type stageFunc func(ctx context.Context, articleID string) (service.StageOutcome, error)

func (h *ArticleHandler) runStage(c echo.Context, stage stageFunc, resultStatus string) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Article ID cannot be empty")
	}

	outcome, err := stage(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if outcome == service.OutcomeSkipped {
		// The article exists but is not in the status this stage consumes.
		return echo.NewHTTPError(http.StatusConflict, "Article is not in the required status for this operation")
	}

	return c.JSON(http.StatusOK, StageResponse{
		Success:   true,
		ArticleID: id,
		Status:    resultStatus,
	})
}

// HandleBatch handles POST /api/v1/articles/batch requests
func (h *ArticleHandler) HandleBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Article ID list cannot be empty")
	}

	summary, err := h.batch.Run(c.Request().Context(),
		service.BatchOperation(req.Operation), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// HandleDeleteArticles handles DELETE /api/v1/articles requests
func (h *ArticleHandler) HandleDeleteArticles(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Article ID list cannot be empty")
	}

	deleted, err := h.articles.DeleteMany(c.Request().Context(), req.IDs)
	if err != nil {
		return err
	}

	h.logger.Info("articles deleted", "requested", len(req.IDs), "deleted", deleted)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

// HandleUpdateArticle handles PUT /api/v1/articles/:id requests. It lets an
// editor correct the translated text of an article manually.
func (h *ArticleHandler) HandleUpdateArticle(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Article ID cannot be empty")
	}

	var req UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.TranslatedContent) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Translated content cannot be empty")
	}

	if err := h.articles.UpdateTranslatedContent(c.Request().Context(), id, req.TranslatedContent); err != nil {
		return err
	}

	h.logger.Info("article content updated", "article_id", id)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "article_id": id})
}
