package service

import (
	"context"
	"errors"
	"fmt"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"mathtrack_backend/pkg/logger"
	"mathtrack_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReadingService struct {
	DB           *gorm.DB
	BookRepo     *repository.BookRepository
	ReadingRepo  *repository.ReadingSectionRepository
	UserRepo     *repository.UserRepository
	ActivityRepo *repository.ActivityLogRepository
	Cache        *repository.CacheRepository
}

func NewReadingService(
	db *gorm.DB,
	bookRepo *repository.BookRepository,
	readingRepo *repository.ReadingSectionRepository,
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityLogRepository,
	cache *repository.CacheRepository,
) *ReadingService {
	return &ReadingService{
		DB:           db,
		BookRepo:     bookRepo,
		ReadingRepo:  readingRepo,
		UserRepo:     userRepo,
		ActivityRepo: activityRepo,
		Cache:        cache,
	}
}

type ReadingResult struct {
	PointsEarned int                       `json:"pointsEarned"`
	Streak       gamification.StreakResult `json:"streak"`
}

// IsReadingSection 小节在章节范围内且没有任何习题
func IsReadingSection(chapter *model.Chapter, section int) bool {
	if section < 1 {
		return false
	}
	maxSection := chapter.SectionCount
	for _, ex := range chapter.Exercises {
		if ex.Section == nil {
			continue
		}
		if *ex.Section == section {
			return false
		}
		maxSection = max(maxSection, *ex.Section)
	}
	return section <= maxSection
}

// MarkRead 标记阅读小节为已读，获得固定积分并计入当天活动
func (s *ReadingService) MarkRead(ctx context.Context, userID, chapterID uint, section int, now time.Time) (*ReadingResult, error) {
	chapter, err := s.BookRepo.FindChapter(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}
	if !IsReadingSection(chapter, section) {
		return nil, util.ErrNotReadingSection
	}

	result := &ReadingResult{PointsEarned: gamification.ReadingSectionPoints}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		readings := s.ReadingRepo.WithTx(tx)
		exists, err := readings.Exists(userID, chapterID, section)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrAlreadyRead
		}

		if err := readings.Create(&model.ReadingSection{
			UserID:       userID,
			ChapterID:    chapterID,
			Section:      section,
			PointsEarned: gamification.ReadingSectionPoints,
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("create reading section: %w", err)
		}

		users := s.UserRepo.WithTx(tx)
		if err := users.AddPoints(userID, gamification.ReadingSectionPoints); err != nil {
			return err
		}
		streak, err := recordActivity(users, s.ActivityRepo.WithTx(tx), userID, now, 1)
		if err != nil {
			return err
		}
		result.Streak = streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.PointsAwarded.Add(float64(result.PointsEarned))
	if err := s.Cache.InvalidateLeaderboard(ctx); err != nil {
		logger.Log.Warn("invalidate leaderboard cache failed", zap.Error(err))
	}
	return result, nil
}
