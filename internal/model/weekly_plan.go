package model

import (
	"mathtrack_backend/pkg/gamification"
	"time"
)

// swagger:model WeeklyPlan
type WeeklyPlan struct {
	BaseModel
	UserID               uint                  `gorm:"index;not null" json:"userId"`
	BookID               uint                  `gorm:"index;not null" json:"bookId"`
	ChapterID            *uint                 `gorm:"index" json:"chapterId,omitempty"`
	PlanMode             gamification.PlanMode `gorm:"size:20;default:'chapterwise'" json:"planMode"`
	StartChapterNumber   *int                  `json:"startChapterNumber,omitempty"`
	CurrentChapterNumber *int                  `json:"currentChapterNumber,omitempty"`
	DeadlineTime         string                `gorm:"size:20" json:"deadlineTime"` // 例如 "sunday_23:59"
	StartDate            time.Time             `gorm:"type:date;not null" json:"startDate"`
	EndDate              time.Time             `gorm:"type:date;not null" json:"endDate"`
	TargetExercises      string                `gorm:"type:text" json:"-"` // JSON 数组
	CustomText           string                `gorm:"type:text" json:"customText,omitempty"`
	Completed            bool                  `gorm:"default:false" json:"completed"`
	AutoRenew            bool                  `gorm:"default:true" json:"autoRenew"`
}

func (WeeklyPlan) TableName() string {
	return "weekly_plans"
}

func (p *WeeklyPlan) Targets() []uint {
	return gamification.DecodeTargets(p.TargetExercises)
}

func (p *WeeklyPlan) SetTargets(ids []uint) {
	p.TargetExercises = gamification.EncodeTargets(ids)
}

// State 转换为计划推进使用的状态
func (p *WeeklyPlan) State() gamification.PlanState {
	return gamification.PlanState{
		Mode:          p.PlanMode,
		ChapterID:     p.ChapterID,
		ChapterNumber: p.CurrentChapterNumber,
		Targets:       p.Targets(),
	}
}

func (p *WeeklyPlan) Apply(state gamification.PlanState) {
	p.ChapterID = state.ChapterID
	p.CurrentChapterNumber = state.ChapterNumber
	p.SetTargets(state.Targets)
}

// Countdown 截止时间，未设置周截止时间时按结束日期计算。
// 逾期标志与剩余时间文本出自同一次计算，完成状态由 Completed 单独表示
func (p *WeeklyPlan) Countdown(now time.Time) gamification.Countdown {
	if p.DeadlineTime != "" {
		if spec, err := gamification.ParseDeadline(p.DeadlineTime); err == nil {
			return gamification.Remaining(spec, now)
		}
	}
	return gamification.RemainingUntilDate(p.EndDate, now)
}
