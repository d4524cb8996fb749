package service

import (
	"mathtrack_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeNames(badges []Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func TestBadges(t *testing.T) {
	assert.Empty(t, Badges(0, 0, false))
	assert.Equal(t, []string{"First Steps"}, badgeNames(Badges(1, 6, false)))
	assert.Equal(t,
		[]string{"First Steps", "Getting Serious", "Book Grinder", "One-Week Streak", "Chapter Finisher"},
		badgeNames(Badges(100, 7, true)))
}

func TestCalendarColor(t *testing.T) {
	assert.Equal(t, "grey", CalendarColor(0))
	assert.Equal(t, "light-green", CalendarColor(2))
	assert.Equal(t, "medium-green", CalendarColor(5))
	assert.Equal(t, "dark-green", CalendarColor(6))
}

func TestActivityCalendar(t *testing.T) {
	today := time.Date(2026, time.October, 17, 20, 0, 0, 0, time.UTC)
	logs := []model.ActivityLog{
		{Date: time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), ExercisesDone: 3},
		{Date: time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC), ExercisesDone: 7},
	}

	cal := ActivityCalendar(logs, today, 60)
	require.Len(t, cal, 60)

	assert.Equal(t, CalendarDay{Date: "2026-08-19", Exercises: 7, Color: "dark-green"}, cal[0])
	assert.Equal(t, CalendarDay{Date: "2026-10-17", Exercises: 3, Color: "medium-green"}, cal[59])
	assert.Equal(t, "grey", cal[30].Color)
}

func TestPeriodStarts(t *testing.T) {
	// 星期六
	now := time.Date(2026, time.October, 17, 15, 4, 0, 0, time.UTC)
	week, month, year := PeriodStarts(now)

	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), week)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), month)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), year)

	// 星期一当天就是周起点
	week, _, _ = PeriodStarts(time.Date(2026, time.October, 12, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), week)
}

func TestWeeklyAverage(t *testing.T) {
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10.0, WeeklyAverage(10, now.AddDate(0, 0, -3), now))
	assert.Equal(t, 3.3, WeeklyAverage(10, now.AddDate(0, 0, -21), now))
}

func TestFinishedAnyChapter(t *testing.T) {
	totals := map[uint]int64{1: 3, 2: 0, 3: 2}

	assert.False(t, FinishedAnyChapter(totals, map[uint]int64{1: 2}))
	assert.True(t, FinishedAnyChapter(totals, map[uint]int64{1: 2, 3: 2}))
	assert.False(t, FinishedAnyChapter(totals, map[uint]int64{2: 0}))
}
