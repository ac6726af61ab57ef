package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/handwash-service/internal/model"
)

// RootMessage is the plain text body of GET /.
const RootMessage = "Handwashing API is running"

// Root is the plain text liveness endpoint.  It never touches storage so it
// keeps answering while the database is down.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, RootMessage)
}

// HealthHandler serves the JSON health checks.  Now defaults to time.Now.
type HealthHandler struct {
	Pinger interface{ Ping(ctx context.Context) error } // Pinger checks the database pool
	Now    func() time.Time
}

func (h *HealthHandler) now() string {
	if h.Now != nil {
		return model.FormatTimestamp(h.Now())
	}
	return model.FormatTimestamp(time.Now())
}

// Ping handles GET /api/ping.  Like Root it has no storage access.
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    StatusSuccess,
		"message":   "pong",
		"timestamp": h.now(),
	})
}

// TestDB handles GET /api/test-db.  It pings the pool and reports 500 with
// the driver message when the database is unreachable.
func (h *HealthHandler) TestDB(c echo.Context) error {
	if err := h.Pinger.Ping(c.Request().Context()); err != nil {
		c.Logger().Errorf("database ping failed: %v", err)
		return fail(c, http.StatusInternalServerError, "database connection failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    StatusSuccess,
		"message":   "database connection ok",
		"timestamp": h.now(),
	})
}
