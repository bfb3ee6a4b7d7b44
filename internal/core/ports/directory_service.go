package ports

import (
	"context"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// PresenceInput is a presence ping from the embedded UI: identity fields
// asserted by the host, with no role information (roles come only from sync
// or manual assignment, never from the embedding context).
type PresenceInput struct {
	ExternalID  string
	DisplayName string
	Email       string
	TenantID    string
}

// DirectoryService exposes the non-sync directory operations.
type DirectoryService interface {
	// Ping upserts presence: refreshes identity fields and last-seen,
	// creating the user with the safe defaults (role "user", not owner)
	// when absent. Existing role and ownership are never touched.
	Ping(ctx context.Context, in PresenceInput) (*domain.User, error)
	List(ctx context.Context, tenantID string) ([]*domain.User, error)
	// TransferOwnership is the out-of-band operation that moves the Owner
	// flag: the tenant's previous owner (if any) loses it, the target user
	// gains it.
	TransferOwnership(ctx context.Context, tenantID, externalID string) error
}
