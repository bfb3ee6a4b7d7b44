package ports

import (
	"context"
	"time"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// UserPatch carries the fields refreshed on every directory touch. Role is
// applied only when non-empty; callers leave it empty to express a no-op
// decision. IsOwner and ExternalID are deliberately absent: ownership moves
// only through SetOwnerFlag and the external id is immutable.
type UserPatch struct {
	DisplayName string
	Email       string
	TenantID    string
	LastSeenAt  time.Time
	Role        string
}

// UserRepository persists the local user directory, unique on external id.
type UserRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	// Update applies the patch to an existing row. Last writer wins on the
	// identity fields; the Owner and monotonic-role invariants are enforced
	// above this layer, so Update never receives a demoting patch.
	Update(ctx context.Context, externalID string, patch UserPatch) error
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	FindOwnerByTenant(ctx context.Context, tenantID string) (*domain.User, error)
	SetOwnerFlag(ctx context.Context, externalID string, isOwner bool) error
}
