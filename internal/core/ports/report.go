package ports

import "context"

// ReportRow is one user's monthly total.
type ReportRow struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	DaysWorked   int     `json:"days_worked"`
}

// ReportService aggregates time logs into per-user monthly totals.
type ReportService interface {
	// Monthly aggregates all logs of the given "YYYY-MM" month. Hours are
	// rounded to one decimal; days worked counts distinct day-strings.
	Monthly(ctx context.Context, month string) ([]ReportRow, error)
}
