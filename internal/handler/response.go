package handler // handler package contains the HTTP handlers of the handwash API

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope status values.  Every JSON response carries one of them under
// the "status" key.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// fail writes {status:"error", message} with the given HTTP code.
func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"status": StatusError, "message": message})
}

// ErrorHandler renders errors returned by handlers and middleware (unknown
// routes, body limit, panics recovered by echo) in the same envelope as
// handler-produced errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("request %s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = fail(c, code, message)
}
