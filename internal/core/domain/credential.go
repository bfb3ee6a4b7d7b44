package domain

import (
	"errors"
	"time"
)

var ErrCredentialsNotFound = errors.New("credentials not found")

// CredentialRecord stores the per-tenant CRM tokens, one row per tenant.
// Updates merge: persisting only one token must not erase the other.
type CredentialRecord struct {
	TenantID      string    `json:"tenant_id"`
	LocationToken string    `json:"-"`
	AgencyToken   string    `json:"-"`
	UpdatedBy     string    `json:"updated_by,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasLocationToken reports whether a location-scope token is stored.
func (c *CredentialRecord) HasLocationToken() bool {
	return c != nil && c.LocationToken != ""
}

// HasAgencyToken reports whether an agency-scope token is stored.
func (c *CredentialRecord) HasAgencyToken() bool {
	return c != nil && c.AgencyToken != ""
}
