package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes. The user-visible
	// message always distinguishes "no credentials" from "sync attempted
	// but upstream failed" from "internal error".
	switch {
	case errors.Is(err, domain.ErrMissingTenant):
		return http.StatusBadRequest, "missing tenant identifier"
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, "no API keys provided or stored for this tenant"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "sync attempted but the CRM could not be reached"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrActiveSessionExists):
		return http.StatusConflict, "active session already exists"
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusNotFound, "no active session found"
	case errors.Is(err, domain.ErrLogNotFound):
		return http.StatusNotFound, "time log not found"
	case errors.Is(err, domain.ErrInvalidMonth):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidSchedule):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
