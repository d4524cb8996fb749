package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type Team string

const (
	TeamRed   Team = "red"
	TeamBlue  Team = "blue"
	TeamGreen Team = "green"
)

var Teams = []Team{TeamRed, TeamBlue, TeamGreen}

// NicknameChangeInterval 昵称修改间隔
const NicknameChangeInterval = 30 * 24 * time.Hour

// swagger:model User
type User struct {
	BaseModel
	Username          string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Nickname          string     `gorm:"size:80" json:"nickname"`
	Email             string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"size:255;not null" json:"-"`
	Role              UserRole   `gorm:"size:20;default:'student'" json:"role"`
	TotalPoints       int        `gorm:"default:0" json:"totalPoints"`
	StreakDays        int        `gorm:"default:0" json:"streakDays"`
	LongestStreak     int        `gorm:"default:0" json:"longestStreak"`
	LastLogin         *time.Time `json:"lastLogin"`
	LastSeen          *time.Time `json:"-"`
	NicknameChangedAt *time.Time `json:"-"`

	// 隐私设置
	PublicProfile   bool `gorm:"default:true" json:"publicProfile"`
	PublicStats     bool `gorm:"default:true" json:"publicStats"`
	PublicUploads   bool `gorm:"default:false" json:"publicUploads"`
	PublicActivity  bool `gorm:"default:true" json:"publicActivity"`
	ShowLeaderboard bool `gorm:"default:true" json:"showLeaderboard"`

	CompanionID int  `gorm:"default:1" json:"companionId"`
	Team        Team `gorm:"size:10" json:"team,omitempty"`

	// 模拟竞争者
	IsFake          bool    `gorm:"default:false;index" json:"-"`
	Competitiveness float64 `gorm:"default:0" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 排行榜展示名，优先使用昵称
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// CanChangeNickname 每 30 天只能修改一次昵称
func (u *User) CanChangeNickname(now time.Time) bool {
	if u.NicknameChangedAt == nil {
		return true
	}
	return now.Sub(*u.NicknameChangedAt) >= NicknameChangeInterval
}
