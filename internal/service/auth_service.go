package service

import (
	"errors"
	"fmt"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo   *repository.UserRepository
	Companions *CompanionService
	Cfg        *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, companions *CompanionService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		Companions: companions,
		Cfg:        cfg,
	}
}

// LoginResult 登录结果，附带伙伴欢迎语
type LoginResult struct {
	Token     string           `json:"token"`
	User      *model.User      `json:"user"`
	Companion CompanionMessage `json:"companion"`
}

func (s *AuthService) Register(user *model.User) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if _, err := s.UserRepo.FindByUsername(user.Username); err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.UserRepo.FindByEmail(user.Email); err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Student
	}
	if user.CompanionID == 0 {
		user.CompanionID = DefaultCompanionID
	}
	user.PublicProfile = true
	user.PublicStats = true
	user.PublicActivity = true
	user.ShowLeaderboard = true
	if user.Team == "" {
		team, err := s.smallestTeam()
		if err != nil {
			return err
		}
		user.Team = team
	}

	if err := s.UserRepo.Create(user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// smallestTeam 新用户加入人数最少的队伍
func (s *AuthService) smallestTeam() (model.Team, error) {
	best := model.TeamRed
	var bestCount int64 = -1
	for _, team := range model.Teams {
		count, err := s.UserRepo.CountByTeam(team)
		if err != nil {
			return "", err
		}
		if bestCount < 0 || count < bestCount {
			best, bestCount = team, count
		}
	}
	return best, nil
}

func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.UserRepo.UpdateFields(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		User:      user,
		Companion: s.Companions.LoginMessage(user.CompanionID),
	}, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
