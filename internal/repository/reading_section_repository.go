package repository

import (
	"mathtrack_backend/internal/model"

	"gorm.io/gorm"
)

type ReadingSectionRepository struct {
	DB *gorm.DB
}

func NewReadingSectionRepository(db *gorm.DB) *ReadingSectionRepository {
	return &ReadingSectionRepository{DB: db}
}

func (r *ReadingSectionRepository) WithTx(tx *gorm.DB) *ReadingSectionRepository {
	return &ReadingSectionRepository{DB: tx}
}

func (r *ReadingSectionRepository) Create(section *model.ReadingSection) error {
	return r.DB.Create(section).Error
}

func (r *ReadingSectionRepository) Exists(userID, chapterID uint, section int) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ReadingSection{}).
		Where("user_id = ? AND chapter_id = ? AND section = ?", userID, chapterID, section).
		Count(&count).Error
	return count > 0, err
}

// ListByChapters 用户在给定章节中已读的小节
func (r *ReadingSectionRepository) ListByChapters(userID uint, chapterIDs []uint) ([]model.ReadingSection, error) {
	var sections []model.ReadingSection
	if len(chapterIDs) == 0 {
		return sections, nil
	}
	err := r.DB.Where("user_id = ? AND chapter_id IN ?", userID, chapterIDs).Find(&sections).Error
	return sections, err
}
