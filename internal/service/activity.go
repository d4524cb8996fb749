package service

import (
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/pkg/gamification"
	"time"
)

// recordActivity 累加当天活动并重算连续天数，需在事务内调用
func recordActivity(users *repository.UserRepository, logs *repository.ActivityLogRepository, userID uint, now time.Time, n int) (gamification.StreakResult, error) {
	if err := logs.Increment(userID, now, n); err != nil {
		return gamification.StreakResult{}, err
	}
	return refreshStreak(users, logs, userID, now)
}

func refreshStreak(users *repository.UserRepository, logs *repository.ActivityLogRepository, userID uint, now time.Time) (gamification.StreakResult, error) {
	user, err := users.FindByID(userID)
	if err != nil {
		return gamification.StreakResult{}, err
	}
	dates, err := logs.Dates(userID)
	if err != nil {
		return gamification.StreakResult{}, err
	}

	streak := gamification.UpdateStreak(dates, now, user.LongestStreak)
	if err := users.UpdateStreak(userID, streak.Current, streak.Longest); err != nil {
		return gamification.StreakResult{}, err
	}
	return streak, nil
}
