package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

func render(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
	}{
		{domain.ErrMissingTenant, http.StatusBadRequest},
		{domain.ErrMissingCredentials, http.StatusBadRequest},
		{domain.ErrUpstreamUnavailable, http.StatusBadGateway},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrActiveSessionExists, http.StatusConflict},
		{domain.ErrNoActiveSession, http.StatusNotFound},
		{domain.ErrLogNotFound, http.StatusNotFound},
		{domain.ErrInvalidMonth, http.StatusBadRequest},
	}

	for _, tc := range cases {
		code, body := render(t, tc.err)
		if code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, code)
		}
		if body["error"] == "" {
			t.Errorf("%v: expected an error message", tc.err)
		}
	}
}

func TestErrorHandler_DistinguishesCredentialFailures(t *testing.T) {
	// "No keys stored" and "keys present but upstream down" must read
	// differently to the operator.
	_, missing := render(t, domain.ErrMissingCredentials)
	_, upstream := render(t, domain.ErrUpstreamUnavailable)
	if missing["error"] == upstream["error"] {
		t.Error("credential and upstream failures must produce distinct messages")
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("sync location record u1"), domain.ErrUserNotFound)
	code, _ := render(t, wrapped)
	if code != http.StatusNotFound {
		t.Errorf("wrapped domain error must still map, got %d", code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing session claims"))
	if code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", code)
	}
	if body["error"] != "missing session claims" {
		t.Errorf("unexpected message: %v", body["error"])
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, body := render(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	if body["error"] != "internal server error" {
		t.Errorf("internal details must not leak, got %v", body["error"])
	}
}
