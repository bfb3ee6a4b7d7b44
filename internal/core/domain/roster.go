package domain

import "errors"

// ErrUpstreamUnavailable is surfaced only when every attempted scope pass
// failed upstream and the run processed zero records.
var ErrUpstreamUnavailable = errors.New("could not fetch roster from the CRM")

// Scope identifies which credential tier a roster fetch and role decision is
// performed under. Agency is the stronger trust tier: agency-scoped
// credentials represent agency-level staff, who always receive local admin.
type Scope string

const (
	ScopeLocation Scope = "location"
	ScopeAgency   Scope = "agency"
)

// RoleHint is the normalized form of whatever loose role/type markers the CRM
// exposes on a roster record. Parsing happens once, at the client boundary,
// so reconciliation never string-matches raw upstream fields.
type RoleHint string

const (
	RoleHintAdmin   RoleHint = "admin"
	RoleHintAgency  RoleHint = "agency"
	RoleHintUser    RoleHint = "user"
	RoleHintUnknown RoleHint = "unknown"
)

// GrantsAdmin reports whether the hint alone justifies a local admin grant
// under a location-scoped sync.
func (h RoleHint) GrantsAdmin() bool {
	return h == RoleHintAdmin || h == RoleHintAgency
}

// ExternalUser is a normalized roster record as returned by the CRM.
type ExternalUser struct {
	ID          string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Hint        RoleHint
}

// Name returns the best display name available: the CRM-provided display
// name when present, otherwise first and last name joined.
func (u ExternalUser) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
