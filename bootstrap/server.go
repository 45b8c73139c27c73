package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	appmiddleware "news-optimizer/middleware"
)

// NewHTTPServer creates and configures the Echo HTTP server.
func NewHTTPServer(deps *Dependencies, otelEnabled bool, otelServiceName string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Custom error handler for consistent error responses
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(deps.Logger)

	if otelEnabled {
		e.Use(otelecho.Middleware(otelServiceName))
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/api/v1/health"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			deps.Logger.InfoContext(ctx, "HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// API routes
	api := e.Group("/api/v1")
	api.GET("/health", deps.HealthHandler.HandleHealth)

	api.POST("/feeds", deps.AdminHandler.HandleAddFeed)
	api.DELETE("/feeds", deps.AdminHandler.HandleRemoveFeed)
	api.POST("/credentials", deps.AdminHandler.HandleAddCredential)
	api.DELETE("/credentials", deps.AdminHandler.HandleRemoveCredential)

	api.POST("/ingest", deps.IngestHandler.HandleIngest)

	api.GET("/articles/:id", deps.ArticleHandler.HandleGetArticle)
	api.PUT("/articles/:id", deps.ArticleHandler.HandleUpdateArticle)
	api.POST("/articles/:id/translate", deps.ArticleHandler.HandleTranslate)
	api.POST("/articles/:id/enrich", deps.ArticleHandler.HandleEnrich)
	api.POST("/articles/batch", deps.ArticleHandler.HandleBatch)
	api.DELETE("/articles", deps.ArticleHandler.HandleDeleteArticles)

	return e
}

// StartHTTPServer starts the HTTP server in a goroutine.
func StartHTTPServer(e *echo.Echo, port int, log *slog.Logger) {
	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.Info("Starting HTTP server", "port", port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()
}
