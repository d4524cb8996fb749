package repository

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/pkg/gamification"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityLogRepository struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) WithTx(tx *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: tx}
}

// Increment 当天记录不存在则创建，存在则累加
func (r *ActivityLogRepository) Increment(userID uint, day time.Time, n int) error {
	log := model.ActivityLog{
		UserID:        userID,
		Date:          gamification.DateKey(day),
		ExercisesDone: n,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"exercises_done": gorm.Expr("activity_logs.exercises_done + ?", n),
		}),
	}).Create(&log).Error
}

// Decrement 撤销时扣减当天数量，不低于 0
func (r *ActivityLogRepository) Decrement(userID uint, day time.Time, n int) error {
	return r.DB.Model(&model.ActivityLog{}).
		Where("user_id = ? AND date = ?", userID, gamification.DateKey(day)).
		UpdateColumn("exercises_done", gorm.Expr(
			"CASE WHEN exercises_done - ? < 0 THEN 0 ELSE exercises_done - ? END", n, n)).
		Error
}

// Dates 用户有活动的日期（撤销后数量为 0 的不算）
func (r *ActivityLogRepository) Dates(userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := r.DB.Model(&model.ActivityLog{}).
		Where("user_id = ? AND exercises_done > 0", userID).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *ActivityLogRepository) Range(userID uint, from, to time.Time) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := r.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, gamification.DateKey(from), gamification.DateKey(to)).
		Order("date").
		Find(&logs).Error
	return logs, err
}
