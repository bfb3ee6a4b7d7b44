package domain

import "errors"

var ErrScheduleNotFound = errors.New("schedule not found")

// WorkSchedule is one planned working day for a user. At most one row exists
// per user per day. Start and end are wall-clock "HH:mm" strings; when
// IsOffDay is set they are ignored.
type WorkSchedule struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name,omitempty"`
	DateString string `json:"date_string"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	IsOffDay   bool   `json:"is_off_day"`
}
