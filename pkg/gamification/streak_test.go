package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 30, 0, 0, time.Local)
}

func TestUpdateStreak(t *testing.T) {
	today := day(2026, time.October, 17)

	tests := []struct {
		name     string
		today    time.Time
		dates    []time.Time
		previous int
		want     StreakResult
	}{
		{
			name:     "three days then gap",
			dates:    []time.Time{today, day(2026, time.October, 16), day(2026, time.October, 15), day(2026, time.October, 13)},
			previous: 1,
			want:     StreakResult{Current: 3, Longest: 3},
		},
		{
			name:     "longest never decreases",
			dates:    []time.Time{today, day(2026, time.October, 16), day(2026, time.October, 15)},
			previous: 12,
			want:     StreakResult{Current: 3, Longest: 12},
		},
		{
			name:     "no activity today",
			dates:    []time.Time{day(2026, time.October, 16), day(2026, time.October, 15)},
			previous: 4,
			want:     StreakResult{Current: 0, Longest: 4},
		},
		{
			name:     "no logs at all",
			previous: 0,
			want:     StreakResult{Current: 1, Longest: 1},
		},
		{
			name:     "unordered with duplicates",
			dates:    []time.Time{day(2026, time.October, 15), today, today.Add(-time.Hour), day(2026, time.October, 16)},
			previous: 0,
			want:     StreakResult{Current: 3, Longest: 3},
		},
		{
			name:     "across month boundary",
			today:    day(2026, time.November, 1),
			dates:    []time.Time{day(2026, time.November, 1), day(2026, time.October, 31), day(2026, time.October, 30)},
			previous: 0,
			want:     StreakResult{Current: 3, Longest: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := today
			if !tt.today.IsZero() {
				now = tt.today
			}
			assert.Equal(t, tt.want, UpdateStreak(tt.dates, now, tt.previous))
		})
	}
}
