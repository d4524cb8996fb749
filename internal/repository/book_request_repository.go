package repository

import (
	"mathtrack_backend/internal/model"

	"gorm.io/gorm"
)

type BookRequestRepository struct {
	DB *gorm.DB
}

func NewBookRequestRepository(db *gorm.DB) *BookRequestRepository {
	return &BookRequestRepository{DB: db}
}

func (r *BookRequestRepository) Create(request *model.BookRequest) error {
	return r.DB.Create(request).Error
}

func (r *BookRequestRepository) FindByID(id uint) (*model.BookRequest, error) {
	var request model.BookRequest
	err := r.DB.First(&request, id).Error
	return &request, err
}

func (r *BookRequestRepository) ListByUser(userID uint) ([]model.BookRequest, error) {
	var requests []model.BookRequest
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// List 管理员查看，status 为空时返回全部
func (r *BookRequestRepository) List(status model.BookRequestStatus, page, limit int) ([]model.BookRequest, int64, error) {
	var requests []model.BookRequest
	var total int64

	query := r.DB.Model(&model.BookRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *BookRequestRepository) UpdateStatus(id uint, status model.BookRequestStatus) error {
	return r.DB.Model(&model.BookRequest{}).Where("id = ?", id).Update("status", status).Error
}
