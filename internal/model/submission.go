package model

import "time"

const (
	SubmissionSubmitted = "submitted"

	// MarkedDoneFilename 无附件的“标记完成”提交
	MarkedDoneFilename = "__marked_done__"
)

// Submission 用户完成某道题的记录，得分在提交时固化
type Submission struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"userId"`
	ExerciseID   uint      `gorm:"index;not null" json:"exerciseId"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	Status       string    `gorm:"size:20;default:'submitted'" json:"status"`
	PointsEarned int       `gorm:"default:0" json:"pointsEarned"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	Exercise     *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
