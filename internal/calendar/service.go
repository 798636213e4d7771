// Package calendar serves the personal weekly availability calendar:
// it snaps a reference date to its enclosing week and reads or writes
// all seven days as a unit.
package calendar

import (
	"context"
	"errors"
	"time"

	"weband-backend/internal/block"
	"weband-backend/internal/errs"
	"weband-backend/internal/store"
)

// DaysPerWeek is the span of both the personal calendar and a meeting
// window.
const DaysPerWeek = 7

// Day is one calendar day of availability as exposed over the API.
type Day struct {
	Date   string `json:"date"`
	Blocks []int  `json:"blocks"`
}

// Week is a full personal week, ordered from the configured week-start
// day.
type Week struct {
	StartDate string `json:"startDate"`
	Days      []Day  `json:"days"`
}

// Service reads and writes personal weeks through the schedule store.
type Service struct {
	store     store.Store
	codec     *block.Codec
	weekStart time.Weekday
}

// NewService wires a calendar service. The week-start day is explicit
// configuration rather than a package constant so tests can vary it;
// the shipped default is Sunday.
func NewService(s store.Store, codec *block.Codec, weekStart time.Weekday) *Service {
	return &Service{store: s, codec: codec, weekStart: weekStart}
}

// ParseDate parses a calendar-day value (YYYY-MM-DD) into a UTC
// midnight time. Anything else is a ValidationError.
func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, errs.Validationf("invalid date %q, want YYYY-MM-DD", v)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// StartOfWeek returns the configured week-start day on or before t.
// With the Sunday default, 2025-01-22 (a Wednesday) snaps back to
// 2025-01-19.
func (s *Service) StartOfWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) - int(s.weekStart) + DaysPerWeek) % DaysPerWeek
	return t.AddDate(0, 0, -back)
}

// GetWeek returns the seven days of the week enclosing refDate, in
// week order. Days without a stored schedule come back as all-zero
// blocks; only stored days can be anything else.
func (s *Service) GetWeek(ctx context.Context, ownerID int64, refDate string) (Week, error) {
	base, err := ParseDate(refDate)
	if err != nil {
		return Week{}, err
	}
	start := s.StartOfWeek(base)

	stored, err := s.store.WeekBlocks(ctx, ownerID, start, start.AddDate(0, 0, DaysPerWeek-1))
	if err != nil {
		return Week{}, err
	}

	week := Week{StartDate: store.DateKey(start), Days: make([]Day, 0, DaysPerWeek)}
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		key := store.DateKey(date)
		blocks, ok := stored[key]
		if !ok {
			blocks = s.codec.Zero()
		}
		week.Days = append(week.Days, Day{Date: key, Blocks: blocks})
	}
	return week, nil
}

// SaveWeek validates and persists a full week in one transaction. The
// supplied days must cover exactly the seven dates of the computed
// week; any mismatch, and any blocks failing codec validation, rejects
// the whole request before a single row is touched.
func (s *Service) SaveWeek(ctx context.Context, ownerID int64, refDate string, days []Day) (string, error) {
	base, err := ParseDate(refDate)
	if err != nil {
		return "", err
	}
	start := s.StartOfWeek(base)

	if len(days) != DaysPerWeek {
		return "", errs.Validationf("week must have exactly %d days, got %d", DaysPerWeek, len(days))
	}

	supplied := make(map[string][]int, len(days))
	for _, d := range days {
		if _, dup := supplied[d.Date]; dup {
			return "", errs.Validationf("duplicate date %q in week", d.Date)
		}
		supplied[d.Date] = d.Blocks
	}

	ordered := make([]store.DayBlocks, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		blocks, ok := supplied[store.DateKey(date)]
		if !ok {
			return "", errs.Validationf("missing day %s for week starting %s", store.DateKey(date), store.DateKey(start))
		}
		ordered = append(ordered, store.DayBlocks{Date: date, Blocks: blocks})
	}

	if err := s.store.SaveWeek(ctx, ownerID, ordered); err != nil {
		// Caller-supplied blocks failing the codec are an input
		// problem, not stored corruption.
		var invalid *block.InvalidInputError
		if errors.As(err, &invalid) {
			return "", errs.Validationf("invalid blocks: %s", invalid.Error())
		}
		return "", err
	}
	return store.DateKey(start), nil
}
