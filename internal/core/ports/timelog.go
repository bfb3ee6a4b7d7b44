package ports

import (
	"context"
	"time"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// TimeLogFilter narrows a log listing. An empty UserID matches everyone; the
// service only leaves it empty for admin callers.
type TimeLogFilter struct {
	UserID     string
	DateString string
	Limit      int
}

// ClosePatch closes a session: check-out moment, computed duration and the
// auto-stop markers when the close was forced by the day-boundary job.
type ClosePatch struct {
	CheckOut        time.Time
	DurationMinutes int
	Description     string
	AutoStopped     bool
	WarningMessage  string
}

// TimeLogPatch carries an admin edit of an individual log.
type TimeLogPatch struct {
	CheckIn         *time.Time
	CheckOut        *time.Time
	DurationMinutes *int
	Description     *string
}

// TimeLogRepository persists work sessions.
type TimeLogRepository interface {
	Insert(ctx context.Context, log *domain.TimeLog) (*domain.TimeLog, error)
	FindActiveByUser(ctx context.Context, userID string) (*domain.TimeLog, error)
	// FindStaleActive returns sessions still active whose day-string differs
	// from today: sessions forgotten open on a previous day.
	FindStaleActive(ctx context.Context, today string) ([]*domain.TimeLog, error)
	Close(ctx context.Context, id string, patch ClosePatch) error
	List(ctx context.Context, filter TimeLogFilter) ([]*domain.TimeLog, error)
	UpdateByID(ctx context.Context, id string, patch TimeLogPatch) (*domain.TimeLog, error)
	DeleteByID(ctx context.Context, id string) error
	FindByDateRange(ctx context.Context, from, to string) ([]*domain.TimeLog, error)
}

// CheckInInput opens a session.
type CheckInInput struct {
	UserID   string
	UserName string
	Email    string
}

// CheckOutInput closes the caller's active session.
type CheckOutInput struct {
	UserID      string
	Description string
}

// ListLogsInput carries the listing request plus the caller's authorization
// context: non-admins are restricted to their own logs.
type ListLogsInput struct {
	RequestorID string
	IsAdmin     bool
	UserID      string
	DateString  string
}

// TimeLogService implements check-in/check-out and log administration.
type TimeLogService interface {
	CheckIn(ctx context.Context, in CheckInInput) (*domain.TimeLog, error)
	CheckOut(ctx context.Context, in CheckOutInput) (*domain.TimeLog, error)
	List(ctx context.Context, in ListLogsInput) ([]*domain.TimeLog, error)
	Update(ctx context.Context, id string, patch TimeLogPatch) (*domain.TimeLog, error)
	Delete(ctx context.Context, id string) error
}
