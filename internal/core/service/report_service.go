package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// ReportService aggregates time logs into per-user monthly totals.
type ReportService struct {
	repo ports.TimeLogRepository
	log  zerolog.Logger
}

func NewReportService(repo ports.TimeLogRepository, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, log: log}
}

func (s *ReportService) Monthly(ctx context.Context, month string) ([]ports.ReportRow, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, domain.ErrInvalidMonth
	}

	from := month + "-01"
	lastDay := start.AddDate(0, 1, -1).Day()
	to := fmt.Sprintf("%s-%02d", month, lastDay)

	logs, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		userName string
		minutes  int
		days     map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, log := range logs {
		b, ok := buckets[log.UserID]
		if !ok {
			b = &bucket{userName: orDefault(log.UserName, "Unknown"), days: make(map[string]struct{})}
			buckets[log.UserID] = b
		}
		b.minutes += log.DurationMinutes
		b.days[log.DateString] = struct{}{}
	}

	rows := make([]ports.ReportRow, 0, len(buckets))
	for userID, b := range buckets {
		rows = append(rows, ports.ReportRow{
			UserID:       userID,
			UserName:     b.userName,
			TotalMinutes: b.minutes,
			TotalHours:   math.Round(float64(b.minutes)/60*10) / 10,
			DaysWorked:   len(b.days),
		})
	}

	// Deterministic output for callers and tests.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserName != rows[j].UserName {
			return rows[i].UserName < rows[j].UserName
		}
		return rows[i].UserID < rows[j].UserID
	})

	return rows, nil
}
