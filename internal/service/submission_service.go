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
	"mathtrack_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SourceUpload    = "upload"
	SourceMarkDone  = "mark_done"
	SourceSimulated = "simulated"

	submitLockTTL = 30 * time.Second
)

type SubmissionService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	BookRepo       *repository.BookRepository
	SubmissionRepo *repository.SubmissionRepository
	ActivityRepo   *repository.ActivityLogRepository
	PlanRepo       *repository.WeeklyPlanRepository
	Cache          *repository.CacheRepository
	Storage        *StorageService
	Companions     *CompanionService
}

func NewSubmissionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	bookRepo *repository.BookRepository,
	submissionRepo *repository.SubmissionRepository,
	activityRepo *repository.ActivityLogRepository,
	planRepo *repository.WeeklyPlanRepository,
	cache *repository.CacheRepository,
	storage *StorageService,
	companions *CompanionService,
) *SubmissionService {
	return &SubmissionService{
		DB:             db,
		UserRepo:       userRepo,
		BookRepo:       bookRepo,
		SubmissionRepo: submissionRepo,
		ActivityRepo:   activityRepo,
		PlanRepo:       planRepo,
		Cache:          cache,
		Storage:        storage,
		Companions:     companions,
	}
}

type SubmitRequest struct {
	UserID      uint
	BookSlug    string
	ExerciseIDs []uint
	// 已存储的文件名，标记完成时为 model.MarkedDoneFilename
	Filename string
	Source   string
	Now      time.Time
}

type SubmitResult struct {
	Submitted     int                           `json:"submitted"`
	Skipped       int                           `json:"skipped"`
	PointsEarned  int                           `json:"pointsEarned"`
	Streak        gamification.StreakResult     `json:"streak"`
	Exercises     []gamification.ScoredExercise `json:"exercises"`
	PlansAdvanced int                           `json:"plansAdvanced"`
	PlansFinished int                           `json:"plansFinished"`
	LargeUpload   bool                          `json:"largeUpload"`
	Companion     *CompanionMessage             `json:"companion,omitempty"`
}

// Submit 批量完成习题：计分、写入提交、活动记录、连续天数和计划推进在同一事务中完成
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (result *SubmitResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "submission.submit",
		attribute.Int("user.id", int(req.UserID)),
		attribute.Int("exercise.count", len(req.ExerciseIDs)),
		attribute.String("source", req.Source),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if len(req.ExerciseIDs) == 0 {
		return nil, util.ErrNoExercisesSelected
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	lockToken, locked, err := s.Cache.AcquireSubmitLock(ctx, req.UserID, submitLockTTL)
	if err != nil {
		// Redis 故障时不阻塞提交，数据库事务仍保证一致性
		logger.Log.Warn("submit lock unavailable", zap.Uint("userID", req.UserID), zap.Error(err))
		locked = true
	}
	if !locked {
		return nil, util.ErrSubmitInProgress
	}
	defer func() {
		if err := s.Cache.ReleaseSubmitLock(context.Background(), req.UserID, lockToken); err != nil {
			logger.Log.Warn("release submit lock failed", zap.Uint("userID", req.UserID), zap.Error(err))
		}
	}()

	book, err := s.BookRepo.FindBySlug(req.BookSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBookNotFound
		}
		return nil, err
	}

	catalog, chapters := bookCatalog(book)
	if err := ensureInCatalog(catalog, req.ExerciseIDs); err != nil {
		return nil, err
	}

	result = &SubmitResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		submissions := s.SubmissionRepo.WithTx(tx)
		logs := s.ActivityRepo.WithTx(tx)
		plans := s.PlanRepo.WithTx(tx)

		_, scoreSpan := tracing.StartSpan(ctx, "submission.score")
		completed, err := submissions.CompletedInBook(req.UserID, book.ID)
		if err != nil {
			tracing.EndSpan(scoreSpan, err)
			return err
		}
		scored := gamification.ResolveBatch(catalog, completed, req.ExerciseIDs)
		tracing.EndSpan(scoreSpan, nil)
		if len(scored) == 0 {
			return util.ErrNothingNew
		}

		rows := make([]model.Submission, 0, len(scored))
		for _, sc := range scored {
			rows = append(rows, model.Submission{
				UserID:       req.UserID,
				ExerciseID:   sc.ExerciseID,
				Filename:     req.Filename,
				Status:       model.SubmissionSubmitted,
				PointsEarned: sc.Points,
				CreatedAt:    req.Now,
			})
		}
		if err := submissions.CreateBatch(rows); err != nil {
			return fmt.Errorf("create submissions: %w", err)
		}

		points := gamification.TotalPoints(scored)
		if err := users.AddPoints(req.UserID, points); err != nil {
			return fmt.Errorf("add points: %w", err)
		}

		streak, err := recordActivity(users, logs, req.UserID, req.Now, len(scored))
		if err != nil {
			return fmt.Errorf("record activity: %w", err)
		}

		for _, sc := range scored {
			completed = append(completed, sc.ExerciseID)
		}
		advanced, finished, err := progressPlans(plans, req.UserID, book.ID, completed, chapters)
		if err != nil {
			return fmt.Errorf("progress plans: %w", err)
		}

		result.Submitted = len(scored)
		result.Skipped = len(gamification.SortedIDs(req.ExerciseIDs)) - len(scored)
		result.PointsEarned = points
		result.Streak = streak
		result.Exercises = scored
		result.PlansAdvanced = advanced
		result.PlansFinished = finished
		result.LargeUpload = IsLargeUpload(chapterSpan(catalog, scored), len(scored))
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionsCreated.WithLabelValues(req.Source).Add(float64(result.Submitted))
	monitoring.PlansAdvanced.Add(float64(result.PlansAdvanced))
	if req.Source != SourceSimulated {
		monitoring.PointsAwarded.Add(float64(result.PointsEarned))
		user, err := s.UserRepo.FindByID(req.UserID)
		if err == nil {
			msg := s.Companions.UploadMessage(user.CompanionID, result.LargeUpload)
			result.Companion = &msg
		}
	}
	if err := s.Cache.InvalidateLeaderboard(ctx); err != nil {
		logger.Log.Warn("invalidate leaderboard cache failed", zap.Error(err))
	}

	logger.Log.Info("exercises submitted",
		zap.Uint("userID", req.UserID),
		zap.String("book", book.Slug),
		zap.Int("submitted", result.Submitted),
		zap.Int("points", result.PointsEarned),
		zap.String("source", req.Source),
	)
	return result, nil
}

// bookCatalog 书中全部习题及按编号索引的章节
func bookCatalog(book *model.Book) ([]gamification.ExerciseRef, map[int]*gamification.ChapterRef) {
	var catalog []gamification.ExerciseRef
	chapters := make(map[int]*gamification.ChapterRef, len(book.Chapters))
	for i := range book.Chapters {
		ref := ChapterRefOf(&book.Chapters[i])
		chapters[ref.Number] = ref
		catalog = append(catalog, ref.Exercises...)
	}
	return catalog, chapters
}

func ensureInCatalog(catalog []gamification.ExerciseRef, ids []uint) error {
	known := make(map[uint]bool, len(catalog))
	for _, e := range catalog {
		known[e.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: exercise %d", util.ErrExerciseNotInBook, id)
		}
	}
	return nil
}

func chapterSpan(catalog []gamification.ExerciseRef, scored []gamification.ScoredExercise) int {
	chapterOf := make(map[uint]uint, len(catalog))
	for _, e := range catalog {
		chapterOf[e.ID] = e.ChapterID
	}
	seen := make(map[uint]bool)
	for _, sc := range scored {
		seen[chapterOf[sc.ExerciseID]] = true
	}
	return len(seen)
}

// progressPlans 推进该书上未完成的章节计划；最后一章完成后计划标记为完成
func progressPlans(plans *repository.WeeklyPlanRepository, userID, bookID uint, completed []uint, chapters map[int]*gamification.ChapterRef) (advanced, finished int, err error) {
	open, err := plans.OpenForBook(userID, bookID)
	if err != nil {
		return 0, 0, err
	}

	for i := range open {
		plan := &open[i]
		changed, moved, done := AdvancePlan(plan, completed, chapters)
		if !changed {
			continue
		}
		if err := plans.Update(plan); err != nil {
			return advanced, finished, err
		}
		advanced += moved
		if done {
			finished++
		}
	}
	return advanced, finished, nil
}

// AdvancePlan 对单个计划执行推进，连续跳过已全部完成的章节
func AdvancePlan(plan *model.WeeklyPlan, completed []uint, chapters map[int]*gamification.ChapterRef) (changed bool, moved int, done bool) {
	if plan.PlanMode == gamification.ModeOwnPace || plan.CurrentChapterNumber == nil {
		return false, 0, false
	}

	state := plan.State()
	for range len(chapters) + 1 {
		progress := gamification.Progress(completed, state.Targets)
		if progress < 100 {
			break
		}
		next := chapters[*state.ChapterNumber+1]
		if next == nil {
			plan.Completed = true
			done, changed = true, true
			break
		}
		var ok bool
		state, ok = gamification.AdvanceIfComplete(state, progress, next)
		if !ok {
			break
		}
		moved++
		changed = true
	}

	if moved > 0 {
		plan.Apply(state)
	}
	return changed, moved, done
}

// Undo 撤销一次提交并扣回积分
func (s *SubmissionService) Undo(ctx context.Context, userID, submissionID uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "submission.undo", attribute.Int("submission.id", int(submissionID)))
	defer func() { tracing.EndSpan(span, err) }()

	sub, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSubmissionNotFound
		}
		return err
	}
	if sub.UserID != userID {
		return util.ErrSubmissionNotFound
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		logs := s.ActivityRepo.WithTx(tx)
		if err := s.SubmissionRepo.WithTx(tx).Delete(sub.ID); err != nil {
			return err
		}
		if err := users.AddPoints(userID, -sub.PointsEarned); err != nil {
			return err
		}
		if err := logs.Decrement(userID, sub.CreatedAt, 1); err != nil {
			return err
		}
		_, err := refreshStreak(users, logs, userID, time.Now())
		return err
	})
	if err != nil {
		return err
	}

	s.removeOrphanFile(ctx, sub.Filename)
	if err := s.Cache.InvalidateLeaderboard(ctx); err != nil {
		logger.Log.Warn("invalidate leaderboard cache failed", zap.Error(err))
	}
	return nil
}

// removeOrphanFile 没有其他提交引用时删除文件
func (s *SubmissionService) removeOrphanFile(ctx context.Context, filename string) {
	if filename == "" || filename == model.MarkedDoneFilename {
		return
	}
	count, err := s.SubmissionRepo.CountByFilename(filename)
	if err != nil || count > 0 {
		return
	}
	if err := s.Storage.Delete(ctx, filename); err != nil {
		logger.Log.Warn("delete solution file failed", zap.String("file", filename), zap.Error(err))
	}
}

// DiscardUpload 提交失败时清理已保存的文件
func (s *SubmissionService) DiscardUpload(ctx context.Context, filename string) {
	s.removeOrphanFile(ctx, filename)
}

type UploadView struct {
	ID          uint      `json:"id"`
	ExerciseID  uint      `json:"exerciseId"`
	DisplayID   string    `json:"displayId"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	Points      int       `json:"points"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ListUploads 用户上传的解答文件
func (s *SubmissionService) ListUploads(userID uint) ([]UploadView, error) {
	subs, err := s.SubmissionRepo.ListUploads(userID)
	if err != nil {
		return nil, err
	}
	return s.uploadViews(subs), nil
}

func (s *SubmissionService) uploadViews(subs []model.Submission) []UploadView {
	views := make([]UploadView, 0, len(subs))
	for _, sub := range subs {
		view := UploadView{
			ID:          sub.ID,
			ExerciseID:  sub.ExerciseID,
			Filename:    sub.Filename,
			URL:         s.Storage.GetURL(sub.Filename),
			Points:      sub.PointsEarned,
			SubmittedAt: sub.CreatedAt,
		}
		if sub.Exercise != nil && sub.Exercise.Chapter != nil {
			view.DisplayID = sub.Exercise.DisplayNumber(sub.Exercise.Chapter.Number)
		}
		views = append(views, view)
	}
	return views
}
