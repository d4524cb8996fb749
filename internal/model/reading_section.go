package model

import "time"

// ReadingSection 无习题的阅读小节，通过“标记已读”完成
type ReadingSection struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_chapter_section" json:"userId"`
	ChapterID    uint      `gorm:"not null;uniqueIndex:idx_user_chapter_section" json:"chapterId"`
	Section      int       `gorm:"not null;uniqueIndex:idx_user_chapter_section" json:"section"`
	PointsEarned int       `gorm:"default:25" json:"pointsEarned"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (ReadingSection) TableName() string {
	return "reading_sections"
}
