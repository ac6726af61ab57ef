package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestID tags every request with an X-Request-ID, keeping a client
// supplied value and generating a UUID otherwise.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// AccessLog writes one line per request with the request id, method, path,
// status and latency.
func AccessLog() echo.MiddlewareFunc {
	return echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: `${time_rfc3339} ${id} ${remote_ip} ${method} ${uri} ${status} ${latency_human}` + "\n",
	})
}
