package model

import "time"

// ActivityLog 每个用户每天一条，记录当天完成的题目数，用于计算连续天数
type ActivityLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_date" json:"userId"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_date" json:"date"`
	ExercisesDone int       `gorm:"default:0" json:"exercisesDone"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
