package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadline(t *testing.T) {
	spec, err := ParseDeadline("Sunday_23:59")
	require.NoError(t, err)
	assert.Equal(t, DeadlineSpec{Weekday: time.Sunday, Hour: 23, Minute: 59}, spec)
	assert.Equal(t, "sunday_23:59", spec.String())

	spec, err = ParseDeadline("someday_08:05")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, spec.Weekday)

	for _, bad := range []string{"", "sunday", "sunday_2359", "sunday_24:00", "sunday_10:60", "monday_ab:cd"} {
		_, err := ParseDeadline(bad)
		assert.ErrorIs(t, err, ErrInvalidDeadline, bad)
	}
}

func TestRemaining(t *testing.T) {
	// 2026-10-13 为周二，2026-10-17 为周六
	tuesday := time.Date(2026, time.October, 13, 10, 0, 0, 0, time.UTC)
	saturday := func(h, m int) time.Time {
		return time.Date(2026, time.October, 17, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		spec     string
		now      time.Time
		deadline time.Time
		days     int
		overdue  bool
		text     string
	}{
		{
			name:     "upcoming sunday from tuesday",
			spec:     "sunday_23:59",
			now:      tuesday,
			deadline: time.Date(2026, time.October, 18, 23, 59, 0, 0, time.UTC),
			days:     5,
			text:     "5 day(s), 13 hour(s)",
		},
		{
			name:     "later today",
			spec:     "saturday_18:00",
			now:      saturday(10, 0),
			deadline: saturday(18, 0),
			days:     0,
			text:     "8 hour(s), 0 minute(s)",
		},
		{
			name:     "less than an hour",
			spec:     "saturday_18:00",
			now:      saturday(17, 30),
			deadline: saturday(18, 0),
			text:     "30 minute(s)",
		},
		{
			name:     "today already passed wraps to next week",
			spec:     "saturday_18:00",
			now:      saturday(20, 0),
			deadline: time.Date(2026, time.October, 24, 18, 0, 0, 0, time.UTC),
			days:     6,
			text:     "6 day(s), 22 hour(s)",
		},
		{
			name:     "exactly at the deadline",
			spec:     "saturday_18:00",
			now:      saturday(18, 0),
			deadline: saturday(18, 0),
			overdue:  true,
			text:     "Overdue",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseDeadline(tt.spec)
			require.NoError(t, err)

			got := Remaining(spec, tt.now)
			assert.Equal(t, tt.deadline, got.Deadline)
			assert.Equal(t, tt.days, got.DaysRemaining)
			assert.Equal(t, tt.overdue, got.IsOverdue)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, NextOccurrence(spec, tt.now), got.Deadline)
		})
	}
}

func TestRemainingUntilDate(t *testing.T) {
	end := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)

	c := RemainingUntilDate(end, time.Date(2026, time.October, 17, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, c.DaysRemaining)
	assert.False(t, c.IsOverdue)
	assert.Equal(t, "3 day(s)", c.Text)

	c = RemainingUntilDate(end, time.Date(2026, time.October, 20, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, c.DaysRemaining)
	assert.False(t, c.IsOverdue)

	c = RemainingUntilDate(end, time.Date(2026, time.October, 22, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, c.DaysRemaining)
	assert.True(t, c.IsOverdue)
	assert.Equal(t, "0 day(s)", c.Text)
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "Overdue", FormatRemaining(-time.Minute))
	assert.Equal(t, "1 day(s), 0 hour(s)", FormatRemaining(24*time.Hour))
	assert.Equal(t, "2 hour(s), 5 minute(s)", FormatRemaining(2*time.Hour+5*time.Minute+30*time.Second))
	assert.Equal(t, "0 minute(s)", FormatRemaining(30*time.Second))
}
