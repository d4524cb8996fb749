package service

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/pkg/gamification"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlanView(t *testing.T) {
	// 2026-10-17 是星期六
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
	plan := model.WeeklyPlan{
		PlanMode:     gamification.ModeChapterwise,
		DeadlineTime: "sunday_23:59",
		StartDate:    time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC),
	}
	plan.SetTargets([]uint{1, 2, 3})
	book := &model.Book{Title: "Linear Algebra", Slug: "linear-algebra"}

	view := BuildPlanView(plan, book, []uint{1, 3, 9, 10}, 8, now)

	assert.Equal(t, "Chapterwise", view.ModeDisplay)
	assert.Equal(t, 3, view.TargetCount)
	assert.Equal(t, 2, view.CompletedCount)
	assert.Equal(t, 66, view.Progress)
	assert.Equal(t, 50, view.BookProgress)
	assert.Equal(t, "linear-algebra", view.BookSlug)
	assert.False(t, view.Countdown.IsOverdue)
	assert.Equal(t, 1, view.Countdown.DaysRemaining)
	assert.Equal(t, "1 day(s), 13 hour(s)", view.Countdown.Text)
}

func TestBuildPlanViewOwnPace(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
	plan := model.WeeklyPlan{
		PlanMode:   gamification.ModeOwnPace,
		CustomText: "Exercises 2.1-2.10",
		EndDate:    time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC),
	}

	view := BuildPlanView(plan, nil, nil, 0, now)

	assert.Equal(t, []uint{}, view.TargetIDs)
	assert.Equal(t, 0, view.Progress)
	assert.Equal(t, "3 day(s)", view.Countdown.Text)
}
