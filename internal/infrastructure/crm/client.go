// Package crm implements the outbound roster client for the external CRM.
// Two API shapes exist in the wild: the current one and a legacy one kept for
// older location API keys. The client always tries the current shape first
// and transparently falls back to the legacy shape once.
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

var errEmptyToken = errors.New("crm: empty bearer token")

// Config captures the endpoint settings for both API shapes.
type Config struct {
	// BaseURL is the current API host, e.g. "https://services.crmhq.example".
	BaseURL string
	// LegacyBaseURL is the legacy API host, e.g. "https://rest.crmhq.example".
	LegacyBaseURL string
	// Timeout bounds each attempt (one per shape). Defaults to 10s.
	Timeout time.Duration
}

// Client fetches staff rosters. One bounded attempt per API shape, no other
// retries; ordinary upstream failures are returned as errors for the
// orchestrator to absorb.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	legacyBaseURL string
	log           zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		legacyBaseURL: strings.TrimRight(cfg.LegacyBaseURL, "/"),
		log:           log,
	}
}

func (c *Client) FetchRoster(ctx context.Context, token string) ([]domain.ExternalUser, error) {
	if token == "" {
		return nil, errEmptyToken
	}

	users, err := c.fetch(ctx, c.baseURL+"/v2/users/", token)
	if err == nil {
		return users, nil
	}
	c.log.Debug().Err(err).Msg("current API shape failed, retrying with legacy shape")

	users, legacyErr := c.fetch(ctx, c.legacyBaseURL+"/v1/users/", token)
	if legacyErr != nil {
		return nil, fmt.Errorf("crm: both API shapes failed: current: %v; legacy: %w", err, legacyErr)
	}
	return users, nil
}

// rawUser mirrors the loose roster record the CRM returns. Role and type
// markers vary between shapes and account ages; all of them are collected
// and normalized into a single RoleHint.
type rawUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	Role      string `json:"role"`
	Roles     *struct {
		Type string `json:"type"`
		Role string `json:"role"`
	} `json:"roles"`
}

func (c *Client) fetch(ctx context.Context, url, token string) ([]domain.ExternalUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("roster request %s: status %d", url, resp.StatusCode)
	}

	raw, err := decodeRoster(body)
	if err != nil {
		return nil, err
	}

	users := make([]domain.ExternalUser, 0, len(raw))
	for _, r := range raw {
		users = append(users, domain.ExternalUser{
			ID:          r.ID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			DisplayName: r.Name,
			Email:       r.Email,
			Hint:        parseHint(r),
		})
	}
	return users, nil
}

// decodeRoster accepts both response layouts the CRM is known to produce:
// an object wrapping the list under "users", or a bare array.
func decodeRoster(body []byte) ([]rawUser, error) {
	var envelope struct {
		Users []rawUser `json:"users"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Users != nil {
		return envelope.Users, nil
	}

	var list []rawUser
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	return nil, errors.New("unexpected roster response format")
}

// parseHint normalizes whatever role/type markers the record carries into a
// RoleHint. Agency markers win over admin markers; anything unrecognized is
// explicit unknown so downstream policy never guesses.
func parseHint(r rawUser) domain.RoleHint {
	markers := []string{r.Type, r.Role}
	if r.Roles != nil {
		markers = append(markers, r.Roles.Type, r.Roles.Role)
	}

	hint := domain.RoleHintUnknown
	for _, m := range markers {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "agency":
			return domain.RoleHintAgency
		case "admin":
			hint = domain.RoleHintAdmin
		case "user", "account":
			if hint == domain.RoleHintUnknown {
				hint = domain.RoleHintUser
			}
		}
	}
	return hint
}
