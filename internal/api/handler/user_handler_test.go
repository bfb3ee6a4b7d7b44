package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

type stubDirectoryService struct {
	pingFn     func(ctx context.Context, in ports.PresenceInput) (*domain.User, error)
	listFn     func(ctx context.Context, tenantID string) ([]*domain.User, error)
	transferFn func(ctx context.Context, tenantID, externalID string) error
}

func (s *stubDirectoryService) Ping(ctx context.Context, in ports.PresenceInput) (*domain.User, error) {
	return s.pingFn(ctx, in)
}

func (s *stubDirectoryService) List(ctx context.Context, tenantID string) ([]*domain.User, error) {
	return s.listFn(ctx, tenantID)
}

func (s *stubDirectoryService) TransferOwnership(ctx context.Context, tenantID, externalID string) error {
	return s.transferFn(ctx, tenantID, externalID)
}

func TestUserHandler_List_DefaultsToSessionTenant(t *testing.T) {
	stub := &stubDirectoryService{
		listFn: func(ctx context.Context, tenantID string) ([]*domain.User, error) {
			if tenantID != "loc_1" {
				t.Fatalf("expected session tenant, got %q", tenantID)
			}
			return []*domain.User{{ExternalID: "u1", TenantID: tenantID}}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newSessionContext(t, http.MethodGet, "/v1/users", "", "user")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 1 || users[0]["external_id"] != "u1" {
		t.Fatalf("unexpected payload: %+v", users)
	}
}

func TestUserHandler_List_ExplicitTenant(t *testing.T) {
	stub := &stubDirectoryService{
		listFn: func(ctx context.Context, tenantID string) ([]*domain.User, error) {
			if tenantID != "loc_2" {
				t.Fatalf("expected query tenant, got %q", tenantID)
			}
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newSessionContext(t, http.MethodGet, "/v1/users?tenant_id=loc_2", "", "admin")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// nil from the service must serialize as [], not null.
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestUserHandler_Presence_BuiltFromClaims(t *testing.T) {
	stub := &stubDirectoryService{
		pingFn: func(ctx context.Context, in ports.PresenceInput) (*domain.User, error) {
			if in.ExternalID != "u1" || in.DisplayName != "Ana Pop" || in.TenantID != "loc_1" {
				t.Fatalf("presence must be built from session claims, got %+v", in)
			}
			return &domain.User{ExternalID: in.ExternalID, Role: domain.RoleUser}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newSessionContext(t, http.MethodPost, "/v1/users/presence", "", "user")

	if err := handler.Presence(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_TransferOwnership(t *testing.T) {
	stub := &stubDirectoryService{
		transferFn: func(ctx context.Context, tenantID, externalID string) error {
			if tenantID != "loc_1" || externalID != "u9" {
				t.Fatalf("unexpected args: %q %q", tenantID, externalID)
			}
			return nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newSessionContext(t, http.MethodPost, "/v1/users/owner", `{"external_id":"u9"}`, "admin")

	if err := handler.TransferOwnership(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_TransferOwnership_MissingTarget(t *testing.T) {
	handler := NewUserHandler(&stubDirectoryService{})

	c, _ := newSessionContext(t, http.MethodPost, "/v1/users/owner", `{}`, "admin")

	err := handler.TransferOwnership(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing external_id, got %v", err)
	}
}

func TestUserHandler_TransferOwnership_UnknownUser(t *testing.T) {
	stub := &stubDirectoryService{
		transferFn: func(ctx context.Context, tenantID, externalID string) error {
			return domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newSessionContext(t, http.MethodPost, "/v1/users/owner", `{"external_id":"ghost"}`, "admin")

	if err := handler.TransferOwnership(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
