package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"weband-backend/internal/block"
	"weband-backend/internal/db"
	"weband-backend/internal/errs"
	"weband-backend/internal/model"
	"weband-backend/internal/store"
)

func newTestService(t *testing.T, name string) (*Service, store.Store) {
	gormDB, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	codec := block.New(block.DefaultSlots)
	s := store.NewGormStore(gormDB, codec)
	return NewService(s, codec, time.Sunday), s
}

func zeroWeek(start string) []Day {
	base, _ := time.Parse(time.DateOnly, start)
	days := make([]Day, 7)
	for i := range days {
		days[i] = Day{
			Date:   base.AddDate(0, 0, i).Format(time.DateOnly),
			Blocks: make([]int, block.DefaultSlots),
		}
	}
	return days
}

func TestStartOfWeek(t *testing.T) {
	svc, _ := newTestService(t, "cal_weekstart")

	testCases := []struct {
		name          string
		ref           string
		expectedStart string
		expectedEnd   string
	}{
		{"wednesday snaps back to sunday", "2025-01-22", "2025-01-19", "2025-01-25"},
		{"sunday is already the start", "2025-01-19", "2025-01-19", "2025-01-25"},
		{"saturday snaps back six days", "2025-01-25", "2025-01-19", "2025-01-25"},
		{"across a month boundary", "2025-03-01", "2025-02-23", "2025-03-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseDate(tc.ref)
			require.NoError(t, err)
			start := svc.StartOfWeek(ref)
			assert.Equal(t, tc.expectedStart, start.Format(time.DateOnly))
			assert.Equal(t, tc.expectedEnd, start.AddDate(0, 0, 6).Format(time.DateOnly))
		})
	}
}

func TestStartOfWeek_ConfigurableDay(t *testing.T) {
	_, s := newTestService(t, "cal_monday")
	svc := NewService(s, block.New(block.DefaultSlots), time.Monday)

	ref, err := ParseDate("2025-01-22")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-20", svc.StartOfWeek(ref).Format(time.DateOnly))

	ref, err = ParseDate("2025-01-19") // a Sunday belongs to the prior Monday week
	require.NoError(t, err)
	assert.Equal(t, "2025-01-13", svc.StartOfWeek(ref).Format(time.DateOnly))
}

func TestParseDate_Invalid(t *testing.T) {
	for _, v := range []string{"", "not-a-date", "2025-13-40", "22-01-2025", "2025/01/22"} {
		_, err := ParseDate(v)
		var validation *errs.ValidationError
		assert.ErrorAsf(t, err, &validation, "%q must be rejected", v)
	}
}

func TestSaveAndGetWeek_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t, "cal_roundtrip")
	ctx := context.Background()

	days := zeroWeek("2025-01-19")
	days[2].Blocks[0] = 1  // Tuesday 09:00
	days[2].Blocks[29] = 1 // Tuesday 23:30
	days[6].Blocks[15] = 1 // Saturday afternoon

	startDate, err := svc.SaveWeek(ctx, 1, "2025-01-22", days)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-19", startDate)

	week, err := svc.GetWeek(ctx, 1, "2025-01-22")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-19", week.StartDate)
	require.Len(t, week.Days, 7)

	assert.Equal(t, "2025-01-19", week.Days[0].Date)
	assert.Equal(t, "2025-01-25", week.Days[6].Date)
	assert.Equal(t, days[2].Blocks, week.Days[2].Blocks)
	assert.Equal(t, days[6].Blocks, week.Days[6].Blocks)
}

func TestGetWeek_FillsMissingDays(t *testing.T) {
	svc, s := newTestService(t, "cal_missing")
	ctx := context.Background()

	// Store only 3 of the 7 days directly.
	start, err := ParseDate("2025-01-19")
	require.NoError(t, err)
	available := make([]int, block.DefaultSlots)
	for i := range available {
		available[i] = 1
	}
	stored := []store.DayBlocks{
		{Date: start, Blocks: available},
		{Date: start.AddDate(0, 0, 3), Blocks: available},
		{Date: start.AddDate(0, 0, 6), Blocks: available},
	}
	require.NoError(t, s.SaveWeek(ctx, 5, stored))

	week, err := svc.GetWeek(ctx, 5, "2025-01-22")
	require.NoError(t, err)
	require.Len(t, week.Days, 7)

	for i, day := range week.Days {
		if i == 0 || i == 3 || i == 6 {
			assert.Equalf(t, available, day.Blocks, "day %d should be stored", i)
		} else {
			assert.Equalf(t, make([]int, block.DefaultSlots), day.Blocks, "day %d should default to all-zero", i)
		}
	}
}

func TestSaveWeek_Validation(t *testing.T) {
	svc, s := newTestService(t, "cal_validation")
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(days []Day) []Day
	}{
		{
			name:   "six days",
			mutate: func(days []Day) []Day { return days[:6] },
		},
		{
			name: "eight days",
			mutate: func(days []Day) []Day {
				return append(days, Day{Date: "2025-01-26", Blocks: make([]int, block.DefaultSlots)})
			},
		},
		{
			name: "date outside the computed week",
			mutate: func(days []Day) []Day {
				days[3].Date = "2025-02-22"
				return days
			},
		},
		{
			name: "duplicate date",
			mutate: func(days []Day) []Day {
				days[3].Date = days[2].Date
				return days
			},
		},
		{
			name: "blocks failing codec validation",
			mutate: func(days []Day) []Day {
				days[5].Blocks = []int{1, 2, 3}
				return days
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days := tc.mutate(zeroWeek("2025-01-19"))

			_, err := svc.SaveWeek(ctx, 9, "2025-01-22", days)
			var validation *errs.ValidationError
			require.ErrorAs(t, err, &validation)

			// Nothing may have been persisted for any day of the week.
			var count int64
			require.NoError(t, s.DB().Model(&model.Schedule{}).Where("user_id = ?", 9).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestSaveWeek_UnparsableReference(t *testing.T) {
	svc, _ := newTestService(t, "cal_badref")

	_, err := svc.SaveWeek(context.Background(), 1, "garbage", zeroWeek("2025-01-19"))
	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = svc.GetWeek(context.Background(), 1, "garbage")
	assert.ErrorAs(t, err, &validation)
}
