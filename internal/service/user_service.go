package service

import (
	"errors"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	SubmissionRepo *repository.SubmissionRepository
	Dashboard      *DashboardService
	Submissions    *SubmissionService
	Companions     *CompanionService
}

func NewUserService(
	userRepo *repository.UserRepository,
	submissionRepo *repository.SubmissionRepository,
	dashboard *DashboardService,
	submissions *SubmissionService,
	companions *CompanionService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		SubmissionRepo: submissionRepo,
		Dashboard:      dashboard,
		Submissions:    submissions,
		Companions:     companions,
	}
}

// Profile 公开资料，按隐私设置裁剪
type Profile struct {
	Username         string        `json:"username"`
	DisplayName      string        `json:"displayName"`
	Team             model.Team    `json:"team,omitempty"`
	Companion        Companion     `json:"companion"`
	JoinedAt         time.Time     `json:"joinedAt"`
	IsOwnProfile     bool          `json:"isOwnProfile"`
	StatsVisible     bool          `json:"statsVisible"`
	ActivityVisible  bool          `json:"activityVisible"`
	UploadsVisible   bool          `json:"uploadsVisible"`
	Stats            *Stats        `json:"stats,omitempty"`
	ActivityCalendar []CalendarDay `json:"activityCalendar,omitempty"`
	Badges           []Badge       `json:"badges,omitempty"`
	Uploads          []UploadView  `json:"uploads,omitempty"`
}

// ProfileVisibility 他人查看时按隐私开关决定可见部分，本人全部可见
func ProfileVisibility(user *model.User, viewerID uint) (profile, stats, activity, uploads bool) {
	own := user.ID == viewerID
	return own || user.PublicProfile,
		own || user.PublicStats,
		own || user.PublicActivity,
		own || user.PublicUploads
}

func (s *UserService) GetProfile(viewerID uint, username string, now time.Time) (*Profile, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	visible, statsVisible, activityVisible, uploadsVisible := ProfileVisibility(user, viewerID)
	if !visible {
		return nil, util.ErrProfilePrivate
	}

	p := &Profile{
		Username:        user.Username,
		DisplayName:     user.DisplayName(),
		Team:            user.Team,
		Companion:       s.Companions.Get(user.CompanionID),
		JoinedAt:        user.CreatedAt,
		IsOwnProfile:    user.ID == viewerID,
		StatsVisible:    statsVisible,
		ActivityVisible: activityVisible,
		UploadsVisible:  uploadsVisible,
	}

	if statsVisible || activityVisible {
		stats, err := s.Dashboard.Stats(user, now)
		if err != nil {
			return nil, err
		}
		if statsVisible {
			p.Stats = &stats
		}
		if activityVisible {
			if p.ActivityCalendar, err = s.Dashboard.Calendar(user.ID, now); err != nil {
				return nil, err
			}
			if p.Badges, err = s.Dashboard.Badges(user, stats.TotalExercises); err != nil {
				return nil, err
			}
		}
	}
	if uploadsVisible {
		if p.Uploads, err = s.Submissions.ListUploads(user.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type Settings struct {
	Nickname          string      `json:"nickname"`
	NicknameChangedAt *time.Time  `json:"nicknameChangedAt,omitempty"`
	CanChangeNickname bool        `json:"canChangeNickname"`
	PublicProfile     bool        `json:"publicProfile"`
	PublicStats       bool        `json:"publicStats"`
	PublicUploads     bool        `json:"publicUploads"`
	PublicActivity    bool        `json:"publicActivity"`
	ShowLeaderboard   bool        `json:"showLeaderboard"`
	CompanionID       int         `json:"companionId"`
	Companions        []Companion `json:"companions"`
}

type UpdateSettingsRequest struct {
	Nickname        *string `json:"nickname"`
	PublicProfile   *bool   `json:"publicProfile"`
	PublicStats     *bool   `json:"publicStats"`
	PublicUploads   *bool   `json:"publicUploads"`
	PublicActivity  *bool   `json:"publicActivity"`
	ShowLeaderboard *bool   `json:"showLeaderboard"`
	CompanionID     *int    `json:"companionId"`
}

func (s *UserService) GetSettings(userID uint, now time.Time) (*Settings, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Nickname:          user.Nickname,
		NicknameChangedAt: user.NicknameChangedAt,
		CanChangeNickname: user.CanChangeNickname(now),
		PublicProfile:     user.PublicProfile,
		PublicStats:       user.PublicStats,
		PublicUploads:     user.PublicUploads,
		PublicActivity:    user.PublicActivity,
		ShowLeaderboard:   user.ShowLeaderboard,
		CompanionID:       user.CompanionID,
		Companions:        s.Companions.List(),
	}, nil
}

// SettingsChanges 计算需要更新的字段；昵称每 30 天只能改一次，未变化不计
func SettingsChanges(user *model.User, req UpdateSettingsRequest, validCompanion func(int) bool, now time.Time) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if req.Nickname != nil {
		nickname := strings.TrimSpace(*req.Nickname)
		if nickname != user.Nickname {
			if !user.CanChangeNickname(now) {
				return nil, util.ErrNicknameCooldown
			}
			fields["nickname"] = nickname
			fields["nickname_changed_at"] = now
		}
	}
	if req.CompanionID != nil {
		if !validCompanion(*req.CompanionID) {
			return nil, util.ErrUnknownCompanion
		}
		fields["companion_id"] = *req.CompanionID
	}

	flags := map[string]*bool{
		"public_profile":   req.PublicProfile,
		"public_stats":     req.PublicStats,
		"public_uploads":   req.PublicUploads,
		"public_activity":  req.PublicActivity,
		"show_leaderboard": req.ShowLeaderboard,
	}
	for column, v := range flags {
		if v != nil {
			fields[column] = *v
		}
	}
	return fields, nil
}

func (s *UserService) UpdateSettings(userID uint, req UpdateSettingsRequest, now time.Time) (*Settings, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	fields, err := SettingsChanges(user, req, s.Companions.Valid, now)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.UserRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.GetSettings(userID, now)
}
