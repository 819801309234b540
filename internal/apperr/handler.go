package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// body is the uniform failure shape sent to clients.
type body struct {
	Message   string `json:"message"`
	ErrorCode Code   `json:"errorCode"`
	Errors    any    `json:"errors"`
}

// ErrorHandler is the single boundary converting errors returned by
// handlers and middleware into JSON responses. Unknown errors (driver
// failures, panics surfaced by Echo's recover middleware, stray
// echo.HTTPError values) become opaque internal errors; the original error
// is logged with the request path for diagnostics.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound {
			// Unknown route: keep 404 semantics without inventing an entity.
			appErr = &Error{Status: http.StatusNotFound, Message: "Resource not found", Code: CodeUnprocessable}
		} else {
			appErr = Internal(err)
		}
	}

	if appErr.Status >= http.StatusInternalServerError {
		log.Error().Err(appErr.Cause).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	resp := body{Message: appErr.Message, ErrorCode: appErr.Code, Errors: appErr.Errs}
	if err := c.JSON(appErr.Status, resp); err != nil {
		log.Error().Err(err).Msg("writing error response failed")
	}
}
