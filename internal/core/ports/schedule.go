package ports

import (
	"context"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// ScheduleRepository persists work schedules, unique on (user, day).
type ScheduleRepository interface {
	Upsert(ctx context.Context, s *domain.WorkSchedule) (*domain.WorkSchedule, error)
	ListRange(ctx context.Context, userID, from, to string) ([]*domain.WorkSchedule, error)
}

// UpsertScheduleInput carries one schedule day to save.
type UpsertScheduleInput struct {
	UserID     string
	UserName   string
	DateString string
	StartTime  string
	EndTime    string
	IsOffDay   bool
}

// ScheduleService manages per-user daily work schedules.
type ScheduleService interface {
	Save(ctx context.Context, in UpsertScheduleInput) (*domain.WorkSchedule, error)
	// ListRange returns the user's schedules sorted by day. From and to are
	// optional; when both set, the range is inclusive.
	ListRange(ctx context.Context, userID, from, to string) ([]*domain.WorkSchedule, error)
}
