package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

func newTestClient(baseURL, legacyBaseURL string) *Client {
	return NewClient(Config{
		BaseURL:       baseURL,
		LegacyBaseURL: legacyBaseURL,
	}, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// API shape selection
// ---------------------------------------------------------------------------

func TestFetchRoster_CurrentShape(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":[{"id":"u1","firstName":"Ana","lastName":"Pop","email":"ana@example.com","role":"admin"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "http://legacy.invalid")

	users, err := c.FetchRoster(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/users/" {
		t.Errorf("expected current API path, got %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if len(users) != 1 || users[0].ID != "u1" {
		t.Fatalf("unexpected roster: %+v", users)
	}
	if users[0].Hint != domain.RoleHintAdmin {
		t.Errorf("expected admin hint, got %q", users[0].Hint)
	}
}

func TestFetchRoster_FallsBackToLegacyShape(t *testing.T) {
	current := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer current.Close()

	var legacyPath string
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		legacyPath = r.URL.Path
		w.Write([]byte(`{"users":[{"id":"u1","name":"Ana Pop","email":"ana@example.com"}]}`))
	}))
	defer legacy.Close()

	c := newTestClient(current.URL, legacy.URL)

	users, err := c.FetchRoster(context.Background(), "old-key")
	if err != nil {
		t.Fatalf("fallback should have succeeded: %v", err)
	}
	if legacyPath != "/v1/users/" {
		t.Errorf("expected legacy API path, got %q", legacyPath)
	}
	if len(users) != 1 || users[0].DisplayName != "Ana Pop" {
		t.Fatalf("unexpected roster: %+v", users)
	}
}

func TestFetchRoster_BothShapesFail(t *testing.T) {
	fail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer fail.Close()

	c := newTestClient(fail.URL, fail.URL)

	_, err := c.FetchRoster(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error when both shapes fail, got nil")
	}
}

func TestFetchRoster_EmptyToken(t *testing.T) {
	c := newTestClient("http://unused.invalid", "http://unused.invalid")

	_, err := c.FetchRoster(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty token, got nil")
	}
}

// ---------------------------------------------------------------------------
// Response decoding
// ---------------------------------------------------------------------------

func TestDecodeRoster_Envelope(t *testing.T) {
	raw, err := decodeRoster([]byte(`{"users":[{"id":"a"},{"id":"b"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("expected 2 records, got %d", len(raw))
	}
}

func TestDecodeRoster_BareArray(t *testing.T) {
	raw, err := decodeRoster([]byte(`[{"id":"a"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 1 || raw[0].ID != "a" {
		t.Errorf("unexpected records: %+v", raw)
	}
}

func TestDecodeRoster_EmptyEnvelope(t *testing.T) {
	raw, err := decodeRoster([]byte(`{"users":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("expected 0 records, got %d", len(raw))
	}
}

func TestDecodeRoster_Garbage(t *testing.T) {
	if _, err := decodeRoster([]byte(`"not a roster"`)); err == nil {
		t.Error("expected error for unrecognized payload")
	}
}

// ---------------------------------------------------------------------------
// Hint normalization
// ---------------------------------------------------------------------------

func TestParseHint(t *testing.T) {
	nested := func(typ, role string) *struct {
		Type string `json:"type"`
		Role string `json:"role"`
	} {
		return &struct {
			Type string `json:"type"`
			Role string `json:"role"`
		}{Type: typ, Role: role}
	}

	cases := []struct {
		name string
		in   rawUser
		want domain.RoleHint
	}{
		{"flat admin role", rawUser{Role: "admin"}, domain.RoleHintAdmin},
		{"flat agency type", rawUser{Type: "agency"}, domain.RoleHintAgency},
		{"agency beats admin", rawUser{Type: "agency", Role: "admin"}, domain.RoleHintAgency},
		{"admin beats user", rawUser{Type: "account", Role: "admin"}, domain.RoleHintAdmin},
		{"nested role", rawUser{Roles: nested("", "admin")}, domain.RoleHintAdmin},
		{"nested agency type", rawUser{Roles: nested("agency", "user")}, domain.RoleHintAgency},
		{"account maps to user", rawUser{Type: "account"}, domain.RoleHintUser},
		{"case and whitespace", rawUser{Role: "  Admin "}, domain.RoleHintAdmin},
		{"no markers", rawUser{}, domain.RoleHintUnknown},
		{"unrecognized marker", rawUser{Role: "supervisor"}, domain.RoleHintUnknown},
	}

	for _, tc := range cases {
		if got := parseHint(tc.in); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
