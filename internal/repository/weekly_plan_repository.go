package repository

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/pkg/gamification"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyPlanRepository struct {
	DB *gorm.DB
}

func NewWeeklyPlanRepository(db *gorm.DB) *WeeklyPlanRepository {
	return &WeeklyPlanRepository{DB: db}
}

func (r *WeeklyPlanRepository) WithTx(tx *gorm.DB) *WeeklyPlanRepository {
	return &WeeklyPlanRepository{DB: tx}
}

func (r *WeeklyPlanRepository) Create(plan *model.WeeklyPlan) error {
	return r.DB.Create(plan).Error
}

func (r *WeeklyPlanRepository) Update(plan *model.WeeklyPlan) error {
	return r.DB.Save(plan).Error
}

func (r *WeeklyPlanRepository) Delete(id uint) error {
	return r.DB.Delete(&model.WeeklyPlan{}, id).Error
}

// FindForUser 只返回属于该用户的计划
func (r *WeeklyPlanRepository) FindForUser(id, userID uint) (*model.WeeklyPlan, error) {
	var plan model.WeeklyPlan
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	return &plan, err
}

func (r *WeeklyPlanRepository) ListByUser(userID uint) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	err := r.DB.Where("user_id = ?", userID).
		Order("completed").Order("start_date DESC").
		Find(&plans).Error
	return plans, err
}

// Active 未完成且未过结束日期的计划
func (r *WeeklyPlanRepository) Active(userID uint, today time.Time) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	err := r.DB.Where("user_id = ? AND completed = ? AND end_date >= ?", userID, false, gamification.DateKey(today)).
		Order("start_date").
		Find(&plans).Error
	return plans, err
}

// OpenForBook 某本书上所有未完成的计划，加行锁避免并发推进
func (r *WeeklyPlanRepository) OpenForBook(userID, bookID uint) ([]model.WeeklyPlan, error) {
	var plans []model.WeeklyPlan
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND book_id = ? AND completed = ?", userID, bookID, false).
		Order("id").
		Find(&plans).Error
	return plans, err
}
