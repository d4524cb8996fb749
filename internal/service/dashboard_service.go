package service

import (
	"math"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"time"
)

type DashboardService struct {
	UserRepo       *repository.UserRepository
	BookRepo       *repository.BookRepository
	SubmissionRepo *repository.SubmissionRepository
	ActivityRepo   *repository.ActivityLogRepository
	Books          *BookService
	Plans          *WeeklyPlanService
	Submissions    *SubmissionService
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	bookRepo *repository.BookRepository,
	submissionRepo *repository.SubmissionRepository,
	activityRepo *repository.ActivityLogRepository,
	books *BookService,
	plans *WeeklyPlanService,
	submissions *SubmissionService,
) *DashboardService {
	return &DashboardService{
		UserRepo:       userRepo,
		BookRepo:       bookRepo,
		SubmissionRepo: submissionRepo,
		ActivityRepo:   activityRepo,
		Books:          books,
		Plans:          plans,
		Submissions:    submissions,
	}
}

type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Exercises int    `json:"exercises"`
	Color     string `json:"color"`
}

type Stats struct {
	TotalExercises int64   `json:"totalExercises"`
	TotalPoints    int     `json:"totalPoints"`
	StreakDays     int     `json:"streakDays"`
	LongestStreak  int     `json:"longestStreak"`
	Week           int64   `json:"week"`
	Month          int64   `json:"month"`
	Year           int64   `json:"year"`
	WeeklyAverage  float64 `json:"weeklyAverage"`
}

type Dashboard struct {
	User              *model.User   `json:"user"`
	Books             []BookSummary `json:"books"`
	ActivePlans       []PlanView    `json:"activePlans"`
	Badges            []Badge       `json:"badges"`
	ActivityCalendar  []CalendarDay `json:"activityCalendar"`
	RecentSubmissions []UploadView  `json:"recentSubmissions"`
	Stats             Stats         `json:"stats"`
}

// Badges 按完成数量、连续天数和整章完成情况授予徽章
func Badges(totalExercises int64, streakDays int, finishedChapter bool) []Badge {
	badges := []Badge{}
	if totalExercises >= 1 {
		badges = append(badges, Badge{Name: "First Steps", Description: "Completed your first exercise", Icon: "🎯", Color: "success"})
	}
	if totalExercises >= 20 {
		badges = append(badges, Badge{Name: "Getting Serious", Description: "Completed 20+ exercises", Icon: "📚", Color: "primary"})
	}
	if totalExercises >= 100 {
		badges = append(badges, Badge{Name: "Book Grinder", Description: "Completed 100+ exercises", Icon: "🔥", Color: "danger"})
	}
	if streakDays >= 7 {
		badges = append(badges, Badge{Name: "One-Week Streak", Description: "7+ day streak", Icon: "⚡", Color: "warning"})
	}
	if finishedChapter {
		badges = append(badges, Badge{Name: "Chapter Finisher", Description: "Completed a full chapter", Icon: "🏆", Color: "info"})
	}
	return badges
}

func CalendarColor(exercises int) string {
	switch {
	case exercises <= 0:
		return "grey"
	case exercises <= 2:
		return "light-green"
	case exercises <= 5:
		return "medium-green"
	default:
		return "dark-green"
	}
}

// ActivityCalendar 最近 days 天（含今天）的活动，按日期升序
func ActivityCalendar(logs []model.ActivityLog, today time.Time, days int) []CalendarDay {
	byDate := make(map[string]int, len(logs))
	for _, log := range logs {
		byDate[log.Date.Format(util.DateFormat)] += log.ExercisesDone
	}

	start := gamification.DateKey(today).AddDate(0, 0, -(days - 1))
	calendar := make([]CalendarDay, 0, days)
	for i := range days {
		key := start.AddDate(0, 0, i).Format(util.DateFormat)
		count := byDate[key]
		calendar = append(calendar, CalendarDay{Date: key, Exercises: count, Color: CalendarColor(count)})
	}
	return calendar
}

// PeriodStarts 本周一、本月一日、今年一月一日
func PeriodStarts(now time.Time) (week, month, year time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset), time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
}

// WeeklyAverage 注册以来平均每周完成数，不足一周按一周计，保留一位小数
func WeeklyAverage(total int64, joined, now time.Time) float64 {
	weeks := max(1, now.Sub(joined).Hours()/24/7)
	return math.Round(float64(total)/weeks*10) / 10
}

// FinishedAnyChapter 是否完整完成过至少一个章节
func FinishedAnyChapter(chapterTotals, completedPerChapter map[uint]int64) bool {
	for chapterID, done := range completedPerChapter {
		if total := chapterTotals[chapterID]; total > 0 && done >= total {
			return true
		}
	}
	return false
}

func (s *DashboardService) Stats(user *model.User, now time.Time) (Stats, error) {
	total, err := s.SubmissionRepo.CountByUser(user.ID)
	if err != nil {
		return Stats{}, err
	}
	weekStart, monthStart, yearStart := PeriodStarts(now)
	stats := Stats{
		TotalExercises: total,
		TotalPoints:    user.TotalPoints,
		StreakDays:     user.StreakDays,
		LongestStreak:  user.LongestStreak,
		WeeklyAverage:  WeeklyAverage(total, user.CreatedAt, now),
	}
	if stats.Week, err = s.SubmissionRepo.CountSince(user.ID, weekStart); err != nil {
		return Stats{}, err
	}
	if stats.Month, err = s.SubmissionRepo.CountSince(user.ID, monthStart); err != nil {
		return Stats{}, err
	}
	if stats.Year, err = s.SubmissionRepo.CountSince(user.ID, yearStart); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *DashboardService) Badges(user *model.User, totalExercises int64) ([]Badge, error) {
	totals, err := s.BookRepo.ExerciseCountsByChapter()
	if err != nil {
		return nil, err
	}
	completed, err := s.SubmissionRepo.CompletedPerChapter(user.ID)
	if err != nil {
		return nil, err
	}
	return Badges(totalExercises, user.StreakDays, FinishedAnyChapter(totals, completed)), nil
}

func (s *DashboardService) Calendar(userID uint, now time.Time) ([]CalendarDay, error) {
	from := gamification.DateKey(now).AddDate(0, 0, -(util.ActivityCalendarDays - 1))
	logs, err := s.ActivityRepo.Range(userID, from, now)
	if err != nil {
		return nil, err
	}
	return ActivityCalendar(logs, now, util.ActivityCalendarDays), nil
}

func (s *DashboardService) Get(userID uint, now time.Time) (*Dashboard, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{User: user}
	if d.Books, err = s.Books.ListBooks(userID, "", ""); err != nil {
		return nil, err
	}
	if d.ActivePlans, err = s.Plans.Active(userID, now); err != nil {
		return nil, err
	}
	if d.Stats, err = s.Stats(user, now); err != nil {
		return nil, err
	}
	if d.Badges, err = s.Badges(user, d.Stats.TotalExercises); err != nil {
		return nil, err
	}
	if d.ActivityCalendar, err = s.Calendar(userID, now); err != nil {
		return nil, err
	}
	recent, err := s.SubmissionRepo.Recent(userID, util.RecentSubmissions)
	if err != nil {
		return nil, err
	}
	d.RecentSubmissions = s.Submissions.uploadViews(recent)
	return d, nil
}
