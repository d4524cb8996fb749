package service

import (
	"context"
	"encoding/json"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/pkg/logger"
	"mathtrack_backend/pkg/monitoring"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type SortKey string

const (
	SortTotalExercises SortKey = "total_exercises"
	SortPoints         SortKey = "points"
	SortStreak         SortKey = "streak"
	SortLongestStreak  SortKey = "longest_streak"
	SortWeek           SortKey = "week_exercises"
	SortMonth          SortKey = "month_exercises"
	SortYear           SortKey = "year_exercises"
)

// ParseSortKey 未知排序方式按总完成数排序
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPoints, SortStreak, SortLongestStreak, SortWeek, SortMonth, SortYear:
		return k
	default:
		return SortTotalExercises
	}
}

type LeaderboardEntry struct {
	Rank           int        `json:"rank"`
	UserID         uint       `json:"userId"`
	Username       string     `json:"username"`
	DisplayName    string     `json:"displayName"`
	Team           model.Team `json:"team,omitempty"`
	TotalExercises int64      `json:"totalExercises"`
	Points         int        `json:"points"`
	Streak         int        `json:"streak"`
	LongestStreak  int        `json:"longestStreak"`
	WeekExercises  int64      `json:"weekExercises"`
	MonthExercises int64      `json:"monthExercises"`
	YearExercises  int64      `json:"yearExercises"`
	IsCurrentUser  bool       `json:"isCurrentUser,omitempty"`
}

func (e LeaderboardEntry) value(key SortKey) int64 {
	switch key {
	case SortPoints:
		return int64(e.Points)
	case SortStreak:
		return int64(e.Streak)
	case SortLongestStreak:
		return int64(e.LongestStreak)
	case SortWeek:
		return e.WeekExercises
	case SortMonth:
		return e.MonthExercises
	case SortYear:
		return e.YearExercises
	default:
		return e.TotalExercises
	}
}

type TeamScore struct {
	Team      model.Team `json:"team"`
	Members   int        `json:"members"`
	Exercises int64      `json:"exercises"`
	Points    int        `json:"points"`
}

type Leaderboard struct {
	SortBy  SortKey            `json:"sortBy"`
	Entries []LeaderboardEntry `json:"entries"`
	Teams   []TeamScore        `json:"teams"`
}

// Counts 各时间段的提交数，按用户 id 索引
type Counts struct {
	Total, Week, Month, Year map[uint]int64
}

// BuildLeaderboard 排序后按顺序分配名次，相同值按用户 id 保持稳定
func BuildLeaderboard(users []model.User, counts Counts, key SortKey) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		if !u.ShowLeaderboard {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:         u.ID,
			Username:       u.Username,
			DisplayName:    u.DisplayName(),
			Team:           u.Team,
			TotalExercises: counts.Total[u.ID],
			Points:         u.TotalPoints,
			Streak:         u.StreakDays,
			LongestStreak:  u.LongestStreak,
			WeekExercises:  counts.Week[u.ID],
			MonthExercises: counts.Month[u.ID],
			YearExercises:  counts.Year[u.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		vi, vj := entries[i].value(key), entries[j].value(key)
		if vi != vj {
			return vi > vj
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TeamTotals 各队伍汇总，按完成数降序
func TeamTotals(entries []LeaderboardEntry) []TeamScore {
	byTeam := make(map[model.Team]*TeamScore)
	for _, team := range model.Teams {
		byTeam[team] = &TeamScore{Team: team}
	}
	for _, e := range entries {
		score, ok := byTeam[e.Team]
		if !ok {
			continue
		}
		score.Members++
		score.Exercises += e.TotalExercises
		score.Points += e.Points
	}

	teams := make([]TeamScore, 0, len(byTeam))
	for _, team := range model.Teams {
		teams = append(teams, *byTeam[team])
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Exercises > teams[j].Exercises })
	return teams
}

type LeaderboardService struct {
	UserRepo       *repository.UserRepository
	SubmissionRepo *repository.SubmissionRepository
	Cache          *repository.CacheRepository
	cfg            atomic.Pointer[config.LeaderboardConfig]
}

func NewLeaderboardService(userRepo *repository.UserRepository, submissionRepo *repository.SubmissionRepository, cache *repository.CacheRepository, cfg config.LeaderboardConfig) *LeaderboardService {
	s := &LeaderboardService{UserRepo: userRepo, SubmissionRepo: submissionRepo, Cache: cache}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热更新
func (s *LeaderboardService) UpdateConfig(cfg config.LeaderboardConfig) {
	s.cfg.Store(&cfg)
}

func (s *LeaderboardService) Get(ctx context.Context, sortBy string, viewerID uint, now time.Time) (*Leaderboard, error) {
	key := ParseSortKey(sortBy)
	cfg := s.cfg.Load()

	var board Leaderboard
	if data, ok := s.Cache.GetLeaderboard(ctx, string(key)); ok && json.Unmarshal(data, &board) == nil {
		monitoring.LeaderboardCache.WithLabelValues("hit").Inc()
	} else {
		monitoring.LeaderboardCache.WithLabelValues("miss").Inc()
		built, err := s.build(key, now)
		if err != nil {
			return nil, err
		}
		board = *built
		if data, err := json.Marshal(board); err == nil {
			if err := s.Cache.SetLeaderboard(ctx, string(key), data, time.Duration(cfg.CacheSeconds)*time.Second); err != nil {
				logger.Log.Warn("cache leaderboard failed", zap.Error(err))
			}
		}
	}

	if cfg.Limit > 0 && len(board.Entries) > cfg.Limit {
		board.Entries = board.Entries[:cfg.Limit]
	}
	for i := range board.Entries {
		board.Entries[i].IsCurrentUser = board.Entries[i].UserID == viewerID
	}
	return &board, nil
}

func (s *LeaderboardService) build(key SortKey, now time.Time) (*Leaderboard, error) {
	users, err := s.UserRepo.ListVisible()
	if err != nil {
		return nil, err
	}

	weekStart, monthStart, yearStart := PeriodStarts(now)
	var counts Counts
	if counts.Total, err = s.SubmissionRepo.CountsPerUser(time.Time{}); err != nil {
		return nil, err
	}
	if counts.Week, err = s.SubmissionRepo.CountsPerUser(weekStart); err != nil {
		return nil, err
	}
	if counts.Month, err = s.SubmissionRepo.CountsPerUser(monthStart); err != nil {
		return nil, err
	}
	if counts.Year, err = s.SubmissionRepo.CountsPerUser(yearStart); err != nil {
		return nil, err
	}

	entries := BuildLeaderboard(users, counts, key)
	return &Leaderboard{SortBy: key, Entries: entries, Teams: TeamTotals(entries)}, nil
}
