package ports

import (
	"context"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// CredentialRepository persists per-tenant CRM tokens, unique on tenant id.
type CredentialRepository interface {
	FindByTenant(ctx context.Context, tenantID string) (*domain.CredentialRecord, error)
	// Upsert merges the supplied tokens into the tenant's record: empty
	// values leave the previously stored token untouched.
	Upsert(ctx context.Context, tenantID, locationToken, agencyToken, updatedBy string) error
}
