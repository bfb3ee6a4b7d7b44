package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/pkg/metrics"
	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

const (
	listLogsLimit = 100

	autoCloseWarning = "Session left open. Automatically stopped at 23:59."
)

// AutoCloseGate throttles the stale-session scan so repeated log listings
// don't rescan the collection (Redis-backed in production).
type AutoCloseGate interface {
	TryAcquire(ctx context.Context) (bool, error)
}

// TimeLogService implements check-in/check-out and log administration. The
// stale-session auto-close runs lazily on listing, behind the gate: sessions
// forgotten open on a previous day are closed at 23:59:59 of their own day.
type TimeLogService struct {
	repo ports.TimeLogRepository
	gate AutoCloseGate
	loc  *time.Location
	now  func() time.Time
	log  zerolog.Logger
}

func NewTimeLogService(repo ports.TimeLogRepository, gate AutoCloseGate, loc *time.Location, log zerolog.Logger) *TimeLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeLogService{repo: repo, gate: gate, loc: loc, now: time.Now, log: log}
}

func (s *TimeLogService) CheckIn(ctx context.Context, in ports.CheckInInput) (*domain.TimeLog, error) {
	if in.UserID == "" {
		return nil, domain.ErrUserNotFound
	}

	active, err := s.repo.FindActiveByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrActiveSessionExists
	}

	now := s.now().In(s.loc)
	log := &domain.TimeLog{
		UserID:     in.UserID,
		UserName:   in.UserName,
		Email:      in.Email,
		CheckIn:    now,
		DateString: now.Format(domain.DateLayout),
		IsActive:   true,
		CreatedAt:  now,
	}

	created, err := s.repo.Insert(ctx, log)
	if err != nil {
		return nil, err
	}

	metrics.SessionsOpenedTotal.Inc()
	s.log.Info().Str("user_id", in.UserID).Str("date", log.DateString).Msg("session opened")
	return created, nil
}

func (s *TimeLogService) CheckOut(ctx context.Context, in ports.CheckOutInput) (*domain.TimeLog, error) {
	if in.UserID == "" {
		return nil, domain.ErrUserNotFound
	}

	active, err := s.repo.FindActiveByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domain.ErrNoActiveSession
	}

	now := s.now().In(s.loc)
	minutes := int(now.Sub(active.CheckIn).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	patch := ports.ClosePatch{
		CheckOut:        now,
		DurationMinutes: minutes,
		Description:     in.Description,
	}
	if err := s.repo.Close(ctx, active.ID, patch); err != nil {
		return nil, err
	}

	active.CheckOut = &now
	active.DurationMinutes = minutes
	active.IsActive = false
	if in.Description != "" {
		active.Description = in.Description
	}

	metrics.SessionsClosedTotal.WithLabelValues("checkout").Inc()
	s.log.Info().Str("user_id", in.UserID).Int("minutes", minutes).Msg("session closed")
	return active, nil
}

func (s *TimeLogService) List(ctx context.Context, in ports.ListLogsInput) ([]*domain.TimeLog, error) {
	s.maybeAutoClose(ctx)

	filter := ports.TimeLogFilter{DateString: in.DateString, Limit: listLogsLimit}
	if in.IsAdmin {
		filter.UserID = in.UserID
	} else {
		if in.RequestorID == "" {
			return nil, domain.ErrForbidden
		}
		filter.UserID = in.RequestorID
	}

	return s.repo.List(ctx, filter)
}

func (s *TimeLogService) Update(ctx context.Context, id string, patch ports.TimeLogPatch) (*domain.TimeLog, error) {
	return s.repo.UpdateByID(ctx, id, patch)
}

func (s *TimeLogService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// maybeAutoClose runs the stale-session sweep when the gate allows it.
// Failures are logged and swallowed: listing must not break because the
// sweep could not run.
func (s *TimeLogService) maybeAutoClose(ctx context.Context) {
	if s.gate != nil {
		acquired, err := s.gate.TryAcquire(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("auto-close gate unavailable, sweeping anyway")
		} else if !acquired {
			return
		}
	}

	today := s.now().In(s.loc).Format(domain.DateLayout)
	stale, err := s.repo.FindStaleActive(ctx, today)
	if err != nil {
		s.log.Error().Err(err).Msg("stale session scan failed")
		return
	}

	for _, log := range stale {
		if err := s.autoClose(ctx, log); err != nil {
			s.log.Error().Err(err).Str("log_id", log.ID).Msg("auto-close failed")
		}
	}
}

// autoClose closes one forgotten session at 23:59:59 of its own day.
func (s *TimeLogService) autoClose(ctx context.Context, log *domain.TimeLog) error {
	day, err := time.ParseInLocation(domain.DateLayout, log.DateString, s.loc)
	if err != nil {
		return fmt.Errorf("auto-close %s: bad date string %q: %w", log.ID, log.DateString, err)
	}
	endOfDay := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, s.loc)

	minutes := int(endOfDay.Sub(log.CheckIn).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	patch := ports.ClosePatch{
		CheckOut:        endOfDay,
		DurationMinutes: minutes,
		AutoStopped:     true,
		WarningMessage:  autoCloseWarning,
	}
	if err := s.repo.Close(ctx, log.ID, patch); err != nil {
		return err
	}

	metrics.SessionsClosedTotal.WithLabelValues("auto").Inc()
	s.log.Info().
		Str("log_id", log.ID).
		Str("user_id", log.UserID).
		Str("date", log.DateString).
		Msg("stale session auto-closed")
	return nil
}
