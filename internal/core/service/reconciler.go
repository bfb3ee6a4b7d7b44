package service

import (
	"github.com/clockio/timetrack-system/internal/core/domain"
)

// Decision is the outcome of reconciling one external roster record against
// the local directory. A no-op decision leaves role and ownership exactly as
// they are; otherwise Role is the target role to persist.
type Decision struct {
	Role string
	NoOp bool
}

func noOp() Decision {
	return Decision{NoOp: true}
}

func grant(role string) Decision {
	return Decision{Role: role}
}

// Decide maps (external record, scope, prior local state) to a role decision.
// existing is nil for records not yet present in the directory.
//
// Rules, in priority order:
//  1. Owners are untouchable: no scope and no upstream hint may change the
//     role or ownership of a local owner.
//  2. Agency scope forces admin. The credential itself proves agency-level
//     staff; ownership is still never granted here.
//  3. Location scope promotes on an admin/agency hint. Otherwise new records
//     get the safe default "user" and existing records are left alone:
//     location sync upgrades monotonically, it never demotes a role it did
//     not grant.
func Decide(ext domain.ExternalUser, scope domain.Scope, existing *domain.User) Decision {
	if existing != nil && existing.IsOwner {
		return noOp()
	}

	if scope == domain.ScopeAgency {
		return grant(domain.RoleAdmin)
	}

	if ext.Hint.GrantsAdmin() {
		return grant(domain.RoleAdmin)
	}
	if existing == nil {
		return grant(domain.RoleUser)
	}
	return noOp()
}

// FilterAgencyStaff selects the records of an agency-scope roster that carry
// an agency membership marker. When a non-empty roster filters down to
// nothing, the whole roster is returned: some CRM accounts expose no type
// markers at all, and for those the agency credential itself is the trust
// boundary. The heuristic lives here, in one place, so it can be tightened
// without touching orchestration.
func FilterAgencyStaff(roster []domain.ExternalUser) []domain.ExternalUser {
	matched := make([]domain.ExternalUser, 0, len(roster))
	for _, u := range roster {
		if u.Hint == domain.RoleHintAgency {
			matched = append(matched, u)
		}
	}
	if len(matched) == 0 {
		return roster
	}
	return matched
}
