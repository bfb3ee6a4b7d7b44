package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

var ErrInvalidSchedule = errors.New("schedule requires user id and a valid date")

const (
	defaultStartTime = "09:00"
	defaultEndTime   = "17:00"
)

// WorkScheduleService manages per-user daily schedules.
type WorkScheduleService struct {
	repo ports.ScheduleRepository
	log  zerolog.Logger
}

func NewWorkScheduleService(repo ports.ScheduleRepository, log zerolog.Logger) *WorkScheduleService {
	return &WorkScheduleService{repo: repo, log: log}
}

func (s *WorkScheduleService) Save(ctx context.Context, in ports.UpsertScheduleInput) (*domain.WorkSchedule, error) {
	if in.UserID == "" || in.DateString == "" {
		return nil, ErrInvalidSchedule
	}
	if _, err := time.Parse(domain.DateLayout, in.DateString); err != nil {
		return nil, ErrInvalidSchedule
	}

	schedule := &domain.WorkSchedule{
		UserID:     in.UserID,
		UserName:   in.UserName,
		DateString: in.DateString,
		StartTime:  orDefault(in.StartTime, defaultStartTime),
		EndTime:    orDefault(in.EndTime, defaultEndTime),
		IsOffDay:   in.IsOffDay,
	}

	saved, err := s.repo.Upsert(ctx, schedule)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("user_id", in.UserID).Str("date", in.DateString).Msg("schedule saved")
	return saved, nil
}

func (s *WorkScheduleService) ListRange(ctx context.Context, userID, from, to string) ([]*domain.WorkSchedule, error) {
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.ListRange(ctx, userID, from, to)
}
