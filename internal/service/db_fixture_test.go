package service

import (
	"context"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testStore 基于内存 SQLite 的完整服务组合
type testStore struct {
	DB         *gorm.DB
	Users      *repository.UserRepository
	Books      *repository.BookRepository
	Logs       *repository.ActivityLogRepository
	Plans      *repository.WeeklyPlanRepository
	Submission *SubmissionService
	Plan       *WeeklyPlanService
	Reading    *ReadingService
	Catalog    *CatalogService
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库只存在于单个连接上
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	submissions := repository.NewSubmissionRepository(db)
	logs := repository.NewActivityLogRepository(db)
	plans := repository.NewWeeklyPlanRepository(db)
	readings := repository.NewReadingSectionRepository(db)
	cache := repository.NewCacheRepository(nil)

	return &testStore{
		DB:    db,
		Users: users,
		Books: books,
		Logs:  logs,
		Plans: plans,
		Submission: NewSubmissionService(db, users, books, submissions, logs, plans, cache,
			newLocalStorage(t), NewCompanionService()),
		Plan:    NewWeeklyPlanService(db, plans, books, submissions, users, cache),
		Reading: NewReadingService(db, books, readings, users, logs, cache),
		Catalog: NewCatalogService(db, books),
	}
}

// algebraCatalog 第 1 章两节（easy×2、hard×1），第 2 章两节各一题，第 3 章第 2 节为阅读小节
func algebraCatalog() *Catalog {
	return &Catalog{Books: []CatalogBook{{
		Slug:   "algebra",
		Title:  "Undergraduate Algebra",
		Author: "Serge Lang",
		Chapters: []CatalogChapter{
			{Number: 1, Title: "Groups", Exercises: []CatalogExerciseSet{
				{Section: 1, Count: 2, Difficulty: "easy"},
				{Section: 2, Count: 1, Difficulty: "hard"},
			}},
			{Number: 2, Title: "Rings", Exercises: []CatalogExerciseSet{
				{Section: 1, Count: 1, Difficulty: "medium"},
				{Section: 2, Count: 1, Difficulty: "easy"},
			}},
			{Number: 3, Title: "Fields", SectionCount: 2, Exercises: []CatalogExerciseSet{
				{Section: 1, Count: 1, Difficulty: "easy"},
			}},
		},
	}}}
}

// seedAlgebra 导入书目并返回按章节排列的书籍
func (s *testStore) seedAlgebra(t *testing.T) *model.Book {
	t.Helper()
	_, err := s.Catalog.Seed(context.Background(), algebraCatalog())
	require.NoError(t, err)
	book, err := s.Books.FindBySlug("algebra")
	require.NoError(t, err)
	require.Len(t, book.Chapters, 3)
	return book
}

func (s *testStore) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, s.Users.Create(user))
	return user
}

func (s *testStore) totalPoints(t *testing.T, userID uint) int {
	t.Helper()
	user, err := s.Users.FindByID(userID)
	require.NoError(t, err)
	return user.TotalPoints
}

func (s *testStore) activityLogs(t *testing.T, userID uint) []model.ActivityLog {
	t.Helper()
	var logs []model.ActivityLog
	require.NoError(t, s.DB.Where("user_id = ?", userID).Order("date").Find(&logs).Error)
	return logs
}

func (s *testStore) countSubmissions(t *testing.T, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.DB.Model(&model.Submission{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func chapterExerciseIDs(ch model.Chapter) []uint {
	return exerciseIDs(ch.Exercises)
}
