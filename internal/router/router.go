package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/handwash-service/internal/handler"
	"github.com/iliyamo/handwash-service/internal/middleware"
)

// Options configures the shared middleware stack.
type Options struct {
	CORSOrigins []string // allowed origins, "*" for any
	BodyLimit   string   // maximum request body, e.g. "1M"
	AccessLog   bool     // write one log line per request
}

// New creates an Echo instance with the error envelope and the common
// middleware installed.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	if opts.AccessLog {
		e.Use(middleware.AccessLog())
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: origins}))
	if opts.BodyLimit != "" {
		e.Use(echomw.BodyLimit(opts.BodyLimit))
	}
	return e
}

// RegisterRoutes registers the liveness routes.  None of them touch storage
// so load balancers see the process as up even while the database is not.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", handler.Root)
	e.GET("/api/ping", h.Ping)
	// Readiness: the one health check that does reach the database.
	e.GET("/api/test-db", h.TestDB)
}

// RegisterObservations registers the submit, records and stats routes.
// Reads go through the cache middleware when one is configured.
func RegisterObservations(e *echo.Echo, h *handler.ObservationHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.POST("/submit", h.Submit)

	var reads []echo.MiddlewareFunc
	if cache != nil {
		reads = append(reads, cache)
	}
	g.GET("/records", h.Records, reads...)
	g.GET("/stats", h.Stats, reads...)
}
