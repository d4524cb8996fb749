package service

import (
	"errors"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type BookRequestService struct {
	RequestRepo *repository.BookRequestRepository
}

func NewBookRequestService(requestRepo *repository.BookRequestRepository) *BookRequestService {
	return &BookRequestService{RequestRepo: requestRepo}
}

type CreateBookRequest struct {
	BookTitle string `json:"bookTitle" binding:"required,max=200"`
	Author    string `json:"author" binding:"max=200"`
	Reason    string `json:"reason"`
}

func (s *BookRequestService) Create(userID uint, req CreateBookRequest) (*model.BookRequest, error) {
	request := &model.BookRequest{
		UserID:    userID,
		BookTitle: strings.TrimSpace(req.BookTitle),
		Author:    strings.TrimSpace(req.Author),
		Reason:    strings.TrimSpace(req.Reason),
		Status:    model.RequestPending,
	}
	if err := s.RequestRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *BookRequestService) ListMine(userID uint) ([]model.BookRequest, error) {
	return s.RequestRepo.ListByUser(userID)
}

func (s *BookRequestService) List(status string, page, limit int) ([]model.BookRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.RequestRepo.List(model.BookRequestStatus(status), page, limit)
}

// ParseReviewStatus 审核只接受通过或拒绝
func ParseReviewStatus(s string) (model.BookRequestStatus, error) {
	switch status := model.BookRequestStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case model.RequestApproved, model.RequestRejected:
		return status, nil
	default:
		return "", util.ErrInvalidRequestStatus
	}
}

func (s *BookRequestService) Review(id uint, status string) (*model.BookRequest, error) {
	next, err := ParseReviewStatus(status)
	if err != nil {
		return nil, err
	}

	request, err := s.RequestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRequestNotFound
		}
		return nil, err
	}

	if err := s.RequestRepo.UpdateStatus(id, next); err != nil {
		return nil, err
	}
	request.Status = next
	return request, nil
}
