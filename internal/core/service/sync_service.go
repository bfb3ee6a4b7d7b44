package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/pkg/metrics"
	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// SyncService drives one request-triggered synchronization run: persist any
// freshly supplied credentials, resolve the effective token per scope, then
// run the location pass followed by the agency pass. Scope passes fail soft;
// only missing credentials and storage faults abort the run.
type SyncService struct {
	users  ports.UserRepository
	creds  ports.CredentialRepository
	roster ports.RosterClient
	log    zerolog.Logger
}

func NewSyncService(users ports.UserRepository, creds ports.CredentialRepository, roster ports.RosterClient, log zerolog.Logger) *SyncService {
	return &SyncService{users: users, creds: creds, roster: roster, log: log}
}

func (s *SyncService) Run(ctx context.Context, in ports.SyncInput) (*ports.SyncResult, error) {
	tenantID := strings.TrimSpace(in.TenantID)
	if tenantID == "" {
		return nil, domain.ErrMissingTenant
	}

	log := s.log.With().
		Str("run_id", uuid.NewString()).
		Str("tenant_id", tenantID).
		Str("actor", in.Actor).
		Logger()

	if in.LocationToken != "" || in.AgencyToken != "" {
		if err := s.creds.Upsert(ctx, tenantID, in.LocationToken, in.AgencyToken, in.Actor); err != nil {
			return nil, fmt.Errorf("persist credentials: %w", err)
		}
	}

	locationToken, agencyToken, err := s.resolveTokens(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}
	if locationToken == "" && agencyToken == "" {
		return nil, domain.ErrMissingCredentials
	}

	result := &ports.SyncResult{}
	fetchFailed := false

	if locationToken != "" {
		if err := s.runPass(ctx, log, tenantID, locationToken, domain.ScopeLocation, result); err != nil {
			if errors.Is(err, domain.ErrUpstreamUnavailable) {
				fetchFailed = true
			} else {
				return nil, err
			}
		}
	}

	if agencyToken != "" {
		if err := s.runPass(ctx, log, tenantID, agencyToken, domain.ScopeAgency, result); err != nil {
			if errors.Is(err, domain.ErrUpstreamUnavailable) {
				fetchFailed = true
			} else {
				return nil, err
			}
		}
	}

	// A scope failing upstream is tolerated as long as something synced;
	// a run that produced nothing at all is reported as unavailable.
	if fetchFailed && result.Total == 0 {
		metrics.SyncRunsTotal.WithLabelValues("upstream_failed").Inc()
		return nil, domain.ErrUpstreamUnavailable
	}

	metrics.SyncRunsTotal.WithLabelValues("ok").Inc()
	log.Info().
		Int("total", result.Total).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("agency_users", result.AgencyUsers).
		Msg("sync run completed")

	return result, nil
}

// Status reports which scopes have a stored token, without leaking values.
func (s *SyncService) Status(ctx context.Context, tenantID string) (*ports.CredentialStatus, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, domain.ErrMissingTenant
	}

	stored, err := s.creds.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsNotFound) {
			return &ports.CredentialStatus{}, nil
		}
		return nil, err
	}

	return &ports.CredentialStatus{
		HasLocationKey: stored.HasLocationToken(),
		HasAgencyKey:   stored.HasAgencyToken(),
	}, nil
}

// resolveTokens returns the effective token per scope: the supplied value
// when non-empty, otherwise whatever was previously stored for the tenant.
func (s *SyncService) resolveTokens(ctx context.Context, tenantID string, in ports.SyncInput) (string, string, error) {
	locationToken := in.LocationToken
	agencyToken := in.AgencyToken
	if locationToken != "" && agencyToken != "" {
		return locationToken, agencyToken, nil
	}

	stored, err := s.creds.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsNotFound) {
			return locationToken, agencyToken, nil
		}
		return "", "", fmt.Errorf("resolve credentials: %w", err)
	}

	if locationToken == "" {
		locationToken = stored.LocationToken
	}
	if agencyToken == "" {
		agencyToken = stored.AgencyToken
	}
	return locationToken, agencyToken, nil
}

// runPass fetches the roster for one scope and feeds every eligible record
// through the reconciler and the directory. A fetch failure is returned as
// ErrUpstreamUnavailable so the caller can continue with other scopes; any
// other error is a storage fault and aborts the run.
func (s *SyncService) runPass(ctx context.Context, log zerolog.Logger, tenantID, token string, scope domain.Scope, result *ports.SyncResult) error {
	roster, err := s.roster.FetchRoster(ctx, token)
	if err != nil {
		metrics.RosterFetchFailuresTotal.WithLabelValues(string(scope)).Inc()
		log.Warn().Err(err).Str("scope", string(scope)).Msg("roster fetch failed, scope skipped")
		return domain.ErrUpstreamUnavailable
	}

	if scope == domain.ScopeAgency {
		roster = FilterAgencyStaff(roster)
	}

	for _, ext := range roster {
		if ext.ID == "" {
			log.Warn().Str("scope", string(scope)).Str("email", ext.Email).Msg("roster record without id skipped")
			continue
		}

		created, err := s.apply(ctx, ext, tenantID, scope)
		if err != nil {
			return fmt.Errorf("sync %s record %s: %w", scope, ext.ID, err)
		}

		result.Total++
		if created {
			result.Added++
		} else {
			result.Updated++
		}
		if scope == domain.ScopeAgency {
			result.AgencyUsers++
		}
		metrics.SyncUsersProcessedTotal.WithLabelValues(string(scope)).Inc()
	}

	log.Info().Str("scope", string(scope)).Int("records", len(roster)).Msg("scope pass completed")
	return nil
}

// apply reconciles one record and upserts it into the directory. Safe to
// call repeatedly with identical input: the second call refreshes identity
// fields and changes nothing else.
func (s *SyncService) apply(ctx context.Context, ext domain.ExternalUser, tenantID string, scope domain.Scope) (bool, error) {
	existing, err := s.users.FindByExternalID(ctx, ext.ID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	decision := Decide(ext, scope, existing)
	now := time.Now().UTC()

	if existing == nil {
		role := decision.Role
		if role == "" {
			role = domain.RoleUser
		}
		u := &domain.User{
			ExternalID:  ext.ID,
			DisplayName: ext.Name(),
			Email:       ext.Email,
			TenantID:    tenantID,
			Role:        role,
			IsOwner:     false,
			LastSeenAt:  now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := s.users.Insert(ctx, u)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, domain.ErrUserExists) {
			return false, err
		}
		// Lost a race with a concurrent writer. The earlier decision was
		// made against a missing row, so reload the winner's row and decide
		// again before patching; otherwise a plain-user hint could demote
		// whatever role the winner persisted.
		existing, err = s.users.FindByExternalID(ctx, ext.ID)
		if err != nil {
			return false, err
		}
		decision = Decide(ext, scope, existing)
	}

	patch := ports.UserPatch{
		DisplayName: ext.Name(),
		Email:       ext.Email,
		TenantID:    tenantID,
		LastSeenAt:  now,
	}
	if !decision.NoOp {
		patch.Role = decision.Role
	}
	if err := s.users.Update(ctx, ext.ID, patch); err != nil {
		return false, err
	}
	return false, nil
}
