package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"news-optimizer/service"
)

// IngestHandler triggers ingestion runs over all registered feed sources.
type IngestHandler struct {
	ingestor service.FeedIngestor
	logger   *slog.Logger
}

func NewIngestHandler(ingestor service.FeedIngestor, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{ingestor: ingestor, logger: logger}
}

// HandleIngest handles POST /api/v1/ingest requests. The run is synchronous:
// the response carries the full ingestion summary.
func (h *IngestHandler) HandleIngest(c echo.Context) error {
	h.logger.Info("ingestion run requested")

	result, err := h.ingestor.IngestAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
