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
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanWindowDays 计划从创建当天开始，持续到 7 天后
const PlanWindowDays = 7

type WeeklyPlanService struct {
	DB             *gorm.DB
	PlanRepo       *repository.WeeklyPlanRepository
	BookRepo       *repository.BookRepository
	SubmissionRepo *repository.SubmissionRepository
	UserRepo       *repository.UserRepository
	Cache          *repository.CacheRepository
}

func NewWeeklyPlanService(
	db *gorm.DB,
	planRepo *repository.WeeklyPlanRepository,
	bookRepo *repository.BookRepository,
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	cache *repository.CacheRepository,
) *WeeklyPlanService {
	return &WeeklyPlanService{
		DB:             db,
		PlanRepo:       planRepo,
		BookRepo:       bookRepo,
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
		Cache:          cache,
	}
}

type CreatePlanRequest struct {
	BookID         uint
	Mode           gamification.PlanMode
	StartChapterID uint
	DeadlineDay    string
	DeadlineHour   int
	DeadlineMinute int
	CustomText     string
}

type PlanView struct {
	model.WeeklyPlan
	ModeDisplay    string                 `json:"modeDisplay"`
	BookTitle      string                 `json:"bookTitle"`
	BookSlug       string                 `json:"bookSlug"`
	TargetIDs      []uint                 `json:"targetExercises"`
	TargetCount    int                    `json:"targetCount"`
	CompletedCount int                    `json:"completedCount"`
	Progress       int                    `json:"progress"`
	BookProgress   int                    `json:"bookProgress"`
	Countdown      gamification.Countdown `json:"countdown"`
}

func (s *WeeklyPlanService) Create(userID uint, req CreatePlanRequest, now time.Time) (*model.WeeklyPlan, error) {
	if !req.Mode.Valid() {
		return nil, util.ErrInvalidPlanMode
	}

	deadline, err := gamification.ParseDeadline(fmt.Sprintf("%s_%02d:%02d", strings.ToLower(req.DeadlineDay), req.DeadlineHour, req.DeadlineMinute))
	if err != nil {
		return nil, err
	}

	if _, err := s.BookRepo.FindByID(req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBookNotFound
		}
		return nil, err
	}

	start := gamification.DateKey(now)
	plan := &model.WeeklyPlan{
		UserID:       userID,
		BookID:       req.BookID,
		PlanMode:     req.Mode,
		DeadlineTime: deadline.String(),
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, PlanWindowDays),
		AutoRenew:    true,
	}

	switch req.Mode {
	case gamification.ModeChapterwise, gamification.ModeSubchapterwise:
		if req.StartChapterID == 0 {
			return nil, util.ErrStartChapterRequired
		}
		chapter, err := s.BookRepo.FindChapter(req.StartChapterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrChapterNotFound
			}
			return nil, err
		}
		if chapter.BookID != req.BookID {
			return nil, util.ErrChapterNotFound
		}
		id, number := chapter.ID, chapter.Number
		startNumber := number
		plan.ChapterID = &id
		plan.StartChapterNumber = &startNumber
		plan.CurrentChapterNumber = &number
		// 第一周两种模式都以整章为目标，之后按模式推进
		plan.SetTargets(exerciseIDs(chapter.Exercises))
	case gamification.ModeOwnPace:
		text := strings.TrimSpace(req.CustomText)
		if text == "" {
			return nil, util.ErrCustomTextRequired
		}
		plan.CustomText = text
	}

	if err := s.PlanRepo.Create(plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *WeeklyPlanService) List(userID uint, now time.Time) ([]PlanView, error) {
	plans, err := s.PlanRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.views(userID, plans, now)
}

// Active 仪表盘展示的进行中计划
func (s *WeeklyPlanService) Active(userID uint, now time.Time) ([]PlanView, error) {
	plans, err := s.PlanRepo.Active(userID, now)
	if err != nil {
		return nil, err
	}
	return s.views(userID, plans, now)
}

func (s *WeeklyPlanService) Get(userID, planID uint, now time.Time) (*PlanView, error) {
	plan, err := s.PlanRepo.FindForUser(planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	views, err := s.views(userID, []model.WeeklyPlan{*plan}, now)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *WeeklyPlanService) views(userID uint, plans []model.WeeklyPlan, now time.Time) ([]PlanView, error) {
	views := make([]PlanView, 0, len(plans))
	books := make(map[uint]*model.Book)
	completedByBook := make(map[uint][]uint)
	totalByBook := make(map[uint]int64)

	for _, plan := range plans {
		book, ok := books[plan.BookID]
		if !ok {
			b, err := s.BookRepo.FindByID(plan.BookID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			book = b
			books[plan.BookID] = b

			completed, err := s.SubmissionRepo.CompletedInBook(userID, plan.BookID)
			if err != nil {
				return nil, err
			}
			completedByBook[plan.BookID] = completed
			total, err := s.BookRepo.CountExercises(plan.BookID)
			if err != nil {
				return nil, err
			}
			totalByBook[plan.BookID] = total
		}

		completed := completedByBook[plan.BookID]
		views = append(views, BuildPlanView(plan, book, completed, totalByBook[plan.BookID], now))
	}
	return views, nil
}

// BuildPlanView 计算计划进度和倒计时
func BuildPlanView(plan model.WeeklyPlan, book *model.Book, completed []uint, bookTotal int64, now time.Time) PlanView {
	targets := plan.Targets()
	done := make(map[uint]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	completedCount := 0
	for _, id := range targets {
		if done[id] {
			completedCount++
		}
	}

	view := PlanView{
		WeeklyPlan:     plan,
		ModeDisplay:    plan.PlanMode.DisplayName(),
		TargetIDs:      targets,
		TargetCount:    len(targets),
		CompletedCount: completedCount,
		Progress:       gamification.Progress(completed, targets),
		BookProgress:   gamification.Percent(int64(len(done)), bookTotal),
		Countdown:      plan.Countdown(now),
	}
	if view.TargetIDs == nil {
		view.TargetIDs = []uint{}
	}
	if book != nil {
		view.BookTitle = book.Title
		view.BookSlug = book.Slug
	}
	return view
}

// coveredTargets 计划推进过程中覆盖的全部目标题目
func coveredTargets(books *repository.BookRepository, plan *model.WeeklyPlan) ([]uint, error) {
	targets := plan.Targets()
	if plan.StartChapterNumber == nil || plan.CurrentChapterNumber == nil || *plan.StartChapterNumber >= *plan.CurrentChapterNumber {
		return targets, nil
	}
	exercises, err := books.ExercisesByBook(plan.BookID)
	if err != nil {
		return nil, err
	}
	return gamification.CoveredTargets(plan.PlanMode, *plan.StartChapterNumber, *plan.CurrentChapterNumber, targets, chapterRefs(exercises)), nil
}

// chapterRefs 按章节编号分组，要求已加载 Chapter
func chapterRefs(exercises []model.Exercise) map[int]*gamification.ChapterRef {
	chapters := make(map[int]*gamification.ChapterRef)
	for _, ref := range ExerciseRefs(exercises) {
		ch, ok := chapters[ref.ChapterNumber]
		if !ok {
			ch = &gamification.ChapterRef{ID: ref.ChapterID, Number: ref.ChapterNumber}
			chapters[ref.ChapterNumber] = ch
		}
		ch.Exercises = append(ch.Exercises, ref)
	}
	return chapters
}

// Delete 删除计划，并扣回窗口期内为该计划各章目标获得的积分
func (s *WeeklyPlanService) Delete(ctx context.Context, userID, planID uint) (int, error) {
	plan, err := s.PlanRepo.FindForUser(planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrPlanNotFound
		}
		return 0, err
	}

	deducted := 0
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		submissions := s.SubmissionRepo.WithTx(tx)
		targets, err := coveredTargets(s.BookRepo.WithTx(tx), plan)
		if err != nil {
			return err
		}
		subs, err := submissions.InWindow(userID, targets, plan.StartDate, plan.EndDate.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(subs))
		for _, sub := range subs {
			if sub.PointsEarned == 0 {
				continue
			}
			ids = append(ids, sub.ID)
			deducted += sub.PointsEarned
		}
		if err := submissions.ClearPoints(ids); err != nil {
			return err
		}
		if err := s.UserRepo.WithTx(tx).AddPoints(userID, -deducted); err != nil {
			return err
		}
		return s.PlanRepo.WithTx(tx).Delete(plan.ID)
	})
	if err != nil {
		return 0, err
	}

	if deducted > 0 {
		if err := s.Cache.InvalidateLeaderboard(ctx); err != nil {
			logger.Log.Warn("invalidate leaderboard cache failed", zap.Error(err))
		}
	}
	logger.Log.Info("weekly plan deleted", zap.Uint("userID", userID), zap.Uint("planID", planID), zap.Int("deducted", deducted))
	return deducted, nil
}
