package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrMissingTenant = errors.New("missing tenant identifier")
var ErrMissingCredentials = errors.New("no usable credentials for tenant")
var ErrForbidden = errors.New("access forbidden")

// User is one row of the local directory, keyed by the stable identifier the
// CRM issues for the person. Identity fields (DisplayName, Email, TenantID,
// LastSeenAt) are refreshed on every sync touch or presence ping. Role moves
// only through reconciliation decisions or manual admin action. IsOwner is
// set exclusively by the ownership-transfer operation: sync never writes it.
type User struct {
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	TenantID    string    `json:"tenant_id,omitempty"`
	Role        string    `json:"role"`
	IsOwner     bool      `json:"is_owner"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
