package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

type stubScheduleRepo struct {
	byKey     map[string]*domain.WorkSchedule // userID + "|" + dateString
	upsertErr error
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{byKey: make(map[string]*domain.WorkSchedule)}
}

func (r *stubScheduleRepo) Upsert(_ context.Context, s *domain.WorkSchedule) (*domain.WorkSchedule, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	clone := *s
	r.byKey[s.UserID+"|"+s.DateString] = &clone
	out := clone
	return &out, nil
}

func (r *stubScheduleRepo) ListRange(_ context.Context, userID, from, to string) ([]*domain.WorkSchedule, error) {
	var out []*domain.WorkSchedule
	for _, s := range r.byKey {
		if s.UserID != userID {
			continue
		}
		if from != "" && s.DateString < from {
			continue
		}
		if to != "" && s.DateString > to {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateString < out[j].DateString })
	return out, nil
}

func TestScheduleSave_AppliesDefaults(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	saved, err := svc.Save(context.Background(), ports.UpsertScheduleInput{
		UserID:     "u1",
		DateString: "2026-03-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.StartTime != "09:00" || saved.EndTime != "17:00" {
		t.Errorf("expected default working hours, got %q-%q", saved.StartTime, saved.EndTime)
	}
}

func TestScheduleSave_KeepsExplicitTimes(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	saved, err := svc.Save(context.Background(), ports.UpsertScheduleInput{
		UserID:     "u1",
		DateString: "2026-03-10",
		StartTime:  "07:30",
		EndTime:    "15:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.StartTime != "07:30" || saved.EndTime != "15:30" {
		t.Errorf("explicit times not kept: %q-%q", saved.StartTime, saved.EndTime)
	}
}

func TestScheduleSave_UpsertReplacesSameDay(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	if _, err := svc.Save(context.Background(), ports.UpsertScheduleInput{
		UserID: "u1", DateString: "2026-03-10", StartTime: "09:00", EndTime: "17:00",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(context.Background(), ports.UpsertScheduleInput{
		UserID: "u1", DateString: "2026-03-10", IsOffDay: true,
	}); err != nil {
		t.Fatal(err)
	}

	if len(repo.byKey) != 1 {
		t.Fatalf("expected a single row per user per day, got %d", len(repo.byKey))
	}
	if !repo.byKey["u1|2026-03-10"].IsOffDay {
		t.Error("second save must have replaced the first")
	}
}

func TestScheduleSave_Validation(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	cases := []ports.UpsertScheduleInput{
		{UserID: "", DateString: "2026-03-10"},
		{UserID: "u1", DateString: ""},
		{UserID: "u1", DateString: "10/03/2026"},
		{UserID: "u1", DateString: "2026-03-40"},
	}
	for _, in := range cases {
		if _, err := svc.Save(context.Background(), in); !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("input %+v: expected ErrInvalidSchedule, got %v", in, err)
		}
	}
}

func TestScheduleListRange(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		if _, err := svc.Save(context.Background(), ports.UpsertScheduleInput{UserID: "u1", DateString: day}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Save(context.Background(), ports.UpsertScheduleInput{UserID: "u2", DateString: "2026-03-10"}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListRange(context.Background(), "u1", "2026-03-10", "2026-03-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 schedules in range, got %d", len(got))
	}
	if got[0].DateString != "2026-03-10" || got[1].DateString != "2026-03-11" {
		t.Errorf("wrong range or order: %+v", got)
	}
}

func TestScheduleListRange_MissingUser(t *testing.T) {
	repo := newStubScheduleRepo()
	svc := NewWorkScheduleService(repo, zerolog.Nop())

	if _, err := svc.ListRange(context.Background(), "", "", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
