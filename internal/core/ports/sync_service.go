package ports

import "context"

// SyncInput carries an admin-triggered sync request. Either token may be
// empty; values previously stored for the tenant are used as fallback.
type SyncInput struct {
	TenantID      string
	LocationToken string
	AgencyToken   string
	Actor         string
}

// SyncResult aggregates the counters of one sync run. It is ephemeral,
// returned to the caller and never persisted.
type SyncResult struct {
	Total       int
	Added       int
	Updated     int
	AgencyUsers int
}

// CredentialStatus reports which scopes have a stored token for a tenant.
// Token values themselves are never exposed.
type CredentialStatus struct {
	HasLocationKey bool
	HasAgencyKey   bool
}

// SyncService is the request-level entry point of the identity sync engine.
type SyncService interface {
	Run(ctx context.Context, in SyncInput) (*SyncResult, error)
	Status(ctx context.Context, tenantID string) (*CredentialStatus, error)
}
