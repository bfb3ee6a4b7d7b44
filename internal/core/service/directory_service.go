package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// DirectoryService handles the non-sync directory operations: presence
// pings from the embedded UI, tenant listings, and the explicit ownership
// transfer. Presence never carries role information: the embedding context
// is untrusted, roles come only from sync or manual assignment.
type DirectoryService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewDirectoryService(users ports.UserRepository, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{users: users, log: log}
}

func (s *DirectoryService) Ping(ctx context.Context, in ports.PresenceInput) (*domain.User, error) {
	if in.ExternalID == "" {
		return nil, domain.ErrUserNotFound
	}

	existing, err := s.users.FindByExternalID(ctx, in.ExternalID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()

	if existing == nil {
		u := &domain.User{
			ExternalID:  in.ExternalID,
			DisplayName: orDefault(in.DisplayName, "Unknown"),
			Email:       in.Email,
			TenantID:    in.TenantID,
			Role:        domain.RoleUser,
			IsOwner:     false,
			LastSeenAt:  now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := s.users.Insert(ctx, u)
		if err == nil {
			s.log.Debug().Str("external_id", in.ExternalID).Msg("user created on first presence ping")
			return u, nil
		}
		if !errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		// A concurrent ping created the row first. Reload it and refresh
		// like any known user rather than returning a record that was
		// never written.
		existing, err = s.users.FindByExternalID(ctx, in.ExternalID)
		if err != nil {
			return nil, err
		}
	}

	// Refresh identity and last-seen only. Empty incoming fields keep the
	// stored values; role and ownership are never written here.
	patch := ports.UserPatch{
		DisplayName: orDefault(in.DisplayName, existing.DisplayName),
		Email:       orDefault(in.Email, existing.Email),
		TenantID:    orDefault(in.TenantID, existing.TenantID),
		LastSeenAt:  now,
	}
	if err := s.users.Update(ctx, in.ExternalID, patch); err != nil {
		return nil, err
	}

	existing.DisplayName = patch.DisplayName
	existing.Email = patch.Email
	existing.TenantID = patch.TenantID
	existing.LastSeenAt = now
	return existing, nil
}

func (s *DirectoryService) List(ctx context.Context, tenantID string) ([]*domain.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

// TransferOwnership moves the Owner flag to the given user, clearing it on
// the tenant's previous owner. This is the only code path that writes
// IsOwner.
func (s *DirectoryService) TransferOwnership(ctx context.Context, tenantID, externalID string) error {
	target, err := s.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	if tenantID != "" && target.TenantID != tenantID {
		return domain.ErrForbidden
	}

	previous, err := s.users.FindOwnerByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if previous != nil && previous.ExternalID != target.ExternalID {
		if err := s.users.SetOwnerFlag(ctx, previous.ExternalID, false); err != nil {
			return err
		}
	}
	if err := s.users.SetOwnerFlag(ctx, target.ExternalID, true); err != nil {
		return err
	}

	s.log.Info().
		Str("tenant_id", tenantID).
		Str("external_id", externalID).
		Msg("ownership transferred")
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
