package service

import (
	"context"
	"errors"
	"math/rand"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/logger"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// FakeProfile 模拟竞争者的基础资料
type FakeProfile struct {
	Username string
	Nickname string
	Email    string
}

var FakeProfiles = []FakeProfile{
	{"alex_math", "Alex", "alex@example.com"},
	{"bella_student", "Bella", "bella@example.com"},
	{"carlos_genius", "Carlos", "carlos@example.com"},
	{"diana_solver", "Diana", "diana@example.com"},
	{"ethan_pro", "Ethan", "ethan@example.com"},
	{"fiona_ace", "Fiona", "fiona@example.com"},
	{"george_keen", "George", "george@example.com"},
	{"hannah_smart", "Hannah", "hannah@example.com"},
	{"isaac_brain", "Isaac", "isaac@example.com"},
	{"julia_whiz", "Julia", "julia@example.com"},
	{"kevin_master", "Kevin", "kevin@example.com"},
	{"lily_legend", "Lily", "lily@example.com"},
	{"marcus_ninja", "Marcus", "marcus@example.com"},
	{"nina_star", "Nina", "nina@example.com"},
	{"oliver_champ", "Oliver", "oliver@example.com"},
}

const (
	highCompetitors = 5
	lowCompetitors  = 3
)

// CompetitivenessTiers 随机挑选 5 个高竞争（0.7-0.9）、3 个低竞争（0.1-0.3），其余为中等（0.4-0.6）
func CompetitivenessTiers(rnd *rand.Rand, n int) []float64 {
	levels := make([]float64, n)
	for rank, i := range rnd.Perm(n) {
		switch {
		case rank < highCompetitors:
			levels[i] = 0.7 + rnd.Float64()*0.2
		case rank < highCompetitors+lowCompetitors:
			levels[i] = 0.1 + rnd.Float64()*0.2
		default:
			levels[i] = 0.4 + rnd.Float64()*0.2
		}
	}
	return levels
}

// NextExercises 按书中顺序取前 n 道未完成的习题
func NextExercises(exercises []model.Exercise, completed map[uint]bool, n int) []uint {
	ids := make([]uint, 0, n)
	for _, ex := range exercises {
		if len(ids) == n {
			break
		}
		if !completed[ex.ID] {
			ids = append(ids, ex.ID)
		}
	}
	return ids
}

// SimulationService 模拟竞争者后台任务，定时让假用户按竞争度概率完成习题
type SimulationService struct {
	UserRepo       *repository.UserRepository
	BookRepo       *repository.BookRepository
	SubmissionRepo *repository.SubmissionRepository
	Submissions    *SubmissionService

	cfg    atomic.Pointer[config.SimulationConfig]
	reset  chan struct{}
	mu     sync.Mutex
	rnd    *rand.Rand
	nowFun func() time.Time
}

func NewSimulationService(userRepo *repository.UserRepository, bookRepo *repository.BookRepository, submissionRepo *repository.SubmissionRepository, submissions *SubmissionService, cfg config.SimulationConfig) *SimulationService {
	s := &SimulationService{
		UserRepo:       userRepo,
		BookRepo:       bookRepo,
		SubmissionRepo: submissionRepo,
		Submissions:    submissions,
		reset:          make(chan struct{}, 1),
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
		nowFun:         time.Now,
	}
	s.cfg.Store(&cfg)
	return s
}

// UpdateConfig 配置热更新，间隔变化时重置定时器
func (s *SimulationService) UpdateConfig(cfg config.SimulationConfig) {
	old := s.cfg.Swap(&cfg)
	if old.IntervalMinutes != cfg.IntervalMinutes || old.Enabled != cfg.Enabled {
		logger.Log.Info("Simulation config updated",
			zap.Bool("enabled", cfg.Enabled),
			zap.Int("intervalMinutes", cfg.IntervalMinutes),
			zap.Int("maxPerRun", cfg.MaxPerRun))
		select {
		case s.reset <- struct{}{}:
		default:
		}
	}
}

func (s *SimulationService) interval() time.Duration {
	minutes := s.cfg.Load().IntervalMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// Start 启动后台任务，ctx 结束时退出
func (s *SimulationService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.reset:
				ticker.Reset(s.interval())
			case <-ticker.C:
				if !s.cfg.Load().Enabled {
					continue
				}
				n, err := s.RunOnce(ctx)
				if err != nil {
					logger.Log.Error("Simulation run failed", zap.Error(err))
					continue
				}
				logger.Log.Debug("Simulation run finished", zap.Int("submitted", n))
			}
		}
	}()
}

func (s *SimulationService) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *SimulationService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// RunOnce 执行一轮模拟，返回新增的完成数
func (s *SimulationService) RunOnce(ctx context.Context) (int, error) {
	fakes, err := s.UserRepo.ListFake()
	if err != nil {
		return 0, err
	}
	books, err := s.BookRepo.List("", "")
	if err != nil {
		return 0, err
	}
	if len(fakes) == 0 || len(books) == 0 {
		return 0, nil
	}

	maxPerRun := max(1, s.cfg.Load().MaxPerRun)
	total := 0
	for _, fake := range fakes {
		if s.float() >= fake.Competitiveness {
			continue
		}

		book := books[s.intn(len(books))]
		ids, err := s.pick(fake.ID, book.ID, 1+s.intn(maxPerRun))
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			continue
		}

		result, err := s.Submissions.Submit(ctx, SubmitRequest{
			UserID:      fake.ID,
			BookSlug:    book.Slug,
			ExerciseIDs: ids,
			Filename:    model.MarkedDoneFilename,
			Source:      SourceSimulated,
			Now:         s.nowFun(),
		})
		if err != nil {
			if errors.Is(err, util.ErrNothingNew) || errors.Is(err, util.ErrSubmitInProgress) {
				continue
			}
			return total, err
		}
		total += result.Submitted
	}
	return total, nil
}

func (s *SimulationService) pick(userID, bookID uint, n int) ([]uint, error) {
	exercises, err := s.BookRepo.ExercisesByBook(bookID)
	if err != nil {
		return nil, err
	}
	done, err := s.SubmissionRepo.CompletedInBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}
	return NextExercises(exercises, completed, n), nil
}

// SeedFakeUsers 创建模拟竞争者，已存在的用户名跳过
func (s *SimulationService) SeedFakeUsers() (int, error) {
	levels := func() []float64 {
		s.mu.Lock()
		defer s.mu.Unlock()
		return CompetitivenessTiers(s.rnd, len(FakeProfiles))
	}()

	created := 0
	for i, profile := range FakeProfiles {
		if _, err := s.UserRepo.FindByUsername(profile.Username); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		// 假用户不可登录
		hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}

		user := &model.User{
			Username:        profile.Username,
			Nickname:        profile.Nickname,
			Email:           profile.Email,
			Password:        string(hashed),
			Role:            model.Student,
			PublicProfile:   true,
			PublicStats:     true,
			PublicActivity:  true,
			ShowLeaderboard: true,
			CompanionID:     DefaultCompanionID,
			Team:            model.Teams[s.intn(len(model.Teams))],
			IsFake:          true,
			Competitiveness: levels[i],
		}
		if err := s.UserRepo.Create(user); err != nil {
			return created, err
		}
		created++
		logger.Log.Info("Seeded fake user",
			zap.String("username", user.Username),
			zap.Float64("competitiveness", user.Competitiveness))
	}
	return created, nil
}
