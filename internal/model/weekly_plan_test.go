package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdownFlagMatchesText(t *testing.T) {
	// 2026-10-13 是星期二，计划窗口早已结束
	now := time.Date(2026, time.October, 13, 10, 0, 0, 0, time.UTC)
	plan := WeeklyPlan{
		DeadlineTime: "sunday_23:59",
		StartDate:    time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, time.October, 8, 0, 0, 0, 0, time.UTC),
	}

	c := plan.Countdown(now)
	assert.False(t, c.IsOverdue)
	assert.Equal(t, 5, c.DaysRemaining)
	assert.Equal(t, "5 day(s), 13 hour(s)", c.Text)

	plan.Completed = true
	assert.Equal(t, c, plan.Countdown(now))
}

func TestCountdownFallsBackToEndDate(t *testing.T) {
	plan := WeeklyPlan{EndDate: time.Date(2026, time.October, 8, 0, 0, 0, 0, time.UTC)}

	c := plan.Countdown(time.Date(2026, time.October, 6, 9, 0, 0, 0, time.UTC))
	assert.False(t, c.IsOverdue)
	assert.Equal(t, "2 day(s)", c.Text)

	c = plan.Countdown(time.Date(2026, time.October, 13, 9, 0, 0, 0, time.UTC))
	assert.True(t, c.IsOverdue)
	assert.Equal(t, 0, c.DaysRemaining)

	// 无法解析的截止时间同样按结束日期计算
	plan.DeadlineTime = "someday_25:00"
	assert.Equal(t, c, plan.Countdown(time.Date(2026, time.October, 13, 9, 0, 0, 0, time.UTC)))
}
