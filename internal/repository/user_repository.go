package repository

import (
	"mathtrack_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateFields(userID uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now()).
		Error
}

// AddPoints 增减积分，结果不低于 0
func (r *UserRepository) AddPoints(userID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr(
			"CASE WHEN total_points + ? < 0 THEN 0 ELSE total_points + ? END", delta, delta)).
		Error
}

func (r *UserRepository) UpdateStreak(userID uint, current, longest int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"streak_days":    current,
			"longest_streak": longest,
		}).Error
}

// ListVisible 参与排行榜的用户
func (r *UserRepository) ListVisible() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("show_leaderboard = ?", true).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListFake() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("is_fake = ?", true).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByTeam(team model.Team) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("team = ?", team).Count(&count).Error
	return count, err
}
