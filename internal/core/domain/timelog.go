package domain

import (
	"errors"
	"time"
)

var ErrActiveSessionExists = errors.New("active session already exists")
var ErrNoActiveSession = errors.New("no active session found")
var ErrLogNotFound = errors.New("time log not found")
var ErrInvalidMonth = errors.New("invalid month format, expected YYYY-MM")

// DateLayout is the day-string format used to bucket sessions, schedules and
// report ranges ("2006-01-02").
const DateLayout = "2006-01-02"

// TimeLog is one work session. A session is opened by check-in
// (IsActive=true, no CheckOut) and closed either by check-out or by the
// stale-session auto-close, which stamps AutoStopped and a warning.
type TimeLog struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name,omitempty"`
	Email           string     `json:"email,omitempty"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	Description     string     `json:"description,omitempty"`
	DateString      string     `json:"date_string"`
	IsActive        bool       `json:"is_active"`
	AutoStopped     bool       `json:"auto_stopped,omitempty"`
	WarningMessage  string     `json:"warning_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
