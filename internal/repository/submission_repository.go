package repository

import (
	"mathtrack_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) WithTx(tx *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: tx}
}

func (r *SubmissionRepository) CreateBatch(submissions []model.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	return r.DB.Create(&submissions).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Exercise.Chapter").First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Submission{}, id).Error
}

func (r *SubmissionRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Where("id IN ?", ids).Delete(&model.Submission{}).Error
}

// CompletedExerciseIDs 用户已完成的习题 id（去重）
func (r *SubmissionRepository) CompletedExerciseIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("exercise_id", &ids).Error
	return ids, err
}

// CompletedInBook 用户在某本书中已完成的习题 id
func (r *SubmissionRepository) CompletedInBook(userID, bookID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Submission{}).
		Joins("JOIN exercises ON exercises.id = submissions.exercise_id").
		Joins("JOIN chapters ON chapters.id = exercises.chapter_id").
		Where("submissions.user_id = ? AND chapters.book_id = ?", userID, bookID).
		Distinct().
		Pluck("submissions.exercise_id", &ids).Error
	return ids, err
}

// ByUserInBook 用户在某本书中的提交，按习题 id 索引
func (r *SubmissionRepository) ByUserInBook(userID, bookID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.
		Joins("JOIN exercises ON exercises.id = submissions.exercise_id").
		Joins("JOIN chapters ON chapters.id = exercises.chapter_id").
		Where("submissions.user_id = ? AND chapters.book_id = ?", userID, bookID).
		Order("submissions.created_at").
		Find(&submissions).Error
	return submissions, err
}

// InWindow 计划时间窗口内针对指定习题的提交
func (r *SubmissionRepository) InWindow(userID uint, exerciseIDs []uint, from, to time.Time) ([]model.Submission, error) {
	var submissions []model.Submission
	if len(exerciseIDs) == 0 {
		return submissions, nil
	}
	err := r.DB.
		Where("user_id = ? AND exercise_id IN ?", userID, exerciseIDs).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) Recent(userID uint, limit int) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Exercise.Chapter").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// ListUploads 用户上传过的文件（排除“标记完成”）
func (r *SubmissionRepository) ListUploads(userID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Exercise.Chapter").
		Where("user_id = ? AND filename <> ?", userID, model.MarkedDoneFilename).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) CountSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) CountByFilename(filename string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("filename = ?", filename).Count(&count).Error
	return count, err
}

// CountsPerUser 每个用户的提交数，since 为零值时统计全部
func (r *SubmissionRepository) CountsPerUser(since time.Time) (map[uint]int64, error) {
	var rows []idCount
	query := r.DB.Model(&model.Submission{}).Select("user_id AS id, COUNT(*) AS count")
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Group("user_id").Scan(&rows).Error
	return toCountMap(rows), err
}

// CompletedPerChapter 用户在每章完成的习题数
func (r *SubmissionRepository) CompletedPerChapter(userID uint) (map[uint]int64, error) {
	var rows []idCount
	err := r.DB.Model(&model.Submission{}).
		Select("exercises.chapter_id AS id, COUNT(DISTINCT submissions.exercise_id) AS count").
		Joins("JOIN exercises ON exercises.id = submissions.exercise_id").
		Where("submissions.user_id = ?", userID).
		Group("exercises.chapter_id").
		Scan(&rows).Error
	return toCountMap(rows), err
}

// ClearPoints 清零指定提交的得分
func (r *SubmissionRepository) ClearPoints(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Model(&model.Submission{}).Where("id IN ?", ids).UpdateColumn("points_earned", 0).Error
}
