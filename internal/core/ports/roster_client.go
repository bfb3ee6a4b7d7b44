package ports

import (
	"context"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// RosterClient fetches the normalized staff roster from the external CRM for
// a given bearer token. Implementations try the current API shape first and
// fall back to the legacy shape once before returning an error. Ordinary
// upstream failures come back as errors, never panics: the orchestrator
// decides whether to continue with other scopes.
type RosterClient interface {
	FetchRoster(ctx context.Context, token string) ([]domain.ExternalUser, error)
}
