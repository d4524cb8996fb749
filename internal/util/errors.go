package util

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrBookNotFound         = errors.New("book not found")
	ErrChapterNotFound      = errors.New("chapter not found")
	ErrNoExercisesSelected  = errors.New("please select at least one exercise")
	ErrExerciseNotInBook    = errors.New("exercise does not belong to this book")
	ErrNothingNew           = errors.New("all selected exercises are already completed")
	ErrSubmitInProgress     = errors.New("another submission is still being processed")
	ErrNoFile               = errors.New("no file uploaded")
	ErrInvalidFileType      = errors.New("invalid file type, allowed: pdf, png, jpg, jpeg")
	ErrFileTooLarge         = errors.New("file too large")
	ErrPlanNotFound         = errors.New("weekly plan not found")
	ErrStartChapterRequired = errors.New("please select a starting chapter")
	ErrCustomTextRequired   = errors.New("please specify the exercises you want to complete this week")
	ErrInvalidPlanMode      = errors.New("invalid plan mode")
	ErrNotReadingSection    = errors.New("section has exercises and cannot be marked as read")
	ErrAlreadyRead          = errors.New("section already marked as read")
	ErrNicknameCooldown     = errors.New("nickname can only be changed once every 30 days")
	ErrProfilePrivate       = errors.New("this profile is private")
	ErrRequestNotFound      = errors.New("book request not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrInvalidRequestStatus = errors.New("status must be approved or rejected")
	ErrUnknownCompanion     = errors.New("unknown companion")
	ErrInvalidCatalog       = errors.New("invalid catalog")
)

var errorStatus = map[error]int{
	ErrUserNotFound:         http.StatusNotFound,
	ErrUsernameTaken:        http.StatusConflict,
	ErrEmailRegistered:      http.StatusConflict,
	ErrInvalidCredentials:   http.StatusUnauthorized,
	ErrPermissionDenied:     http.StatusForbidden,
	ErrBookNotFound:         http.StatusNotFound,
	ErrChapterNotFound:      http.StatusNotFound,
	ErrNoExercisesSelected:  http.StatusBadRequest,
	ErrExerciseNotInBook:    http.StatusBadRequest,
	ErrNothingNew:           http.StatusConflict,
	ErrSubmitInProgress:     http.StatusTooManyRequests,
	ErrNoFile:               http.StatusBadRequest,
	ErrInvalidFileType:      http.StatusBadRequest,
	ErrFileTooLarge:         http.StatusRequestEntityTooLarge,
	ErrPlanNotFound:         http.StatusNotFound,
	ErrStartChapterRequired: http.StatusBadRequest,
	ErrCustomTextRequired:   http.StatusBadRequest,
	ErrInvalidPlanMode:      http.StatusBadRequest,
	ErrNotReadingSection:    http.StatusBadRequest,
	ErrAlreadyRead:          http.StatusConflict,
	ErrNicknameCooldown:     http.StatusTooManyRequests,
	ErrProfilePrivate:       http.StatusForbidden,
	ErrRequestNotFound:      http.StatusNotFound,
	ErrSubmissionNotFound:   http.StatusNotFound,
	ErrInvalidRequestStatus: http.StatusBadRequest,
	ErrUnknownCompanion:     http.StatusBadRequest,
	ErrInvalidCatalog:       http.StatusBadRequest,
}

// StatusOf 将业务错误映射为 HTTP 状态码，未知错误返回 500
func StatusOf(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
