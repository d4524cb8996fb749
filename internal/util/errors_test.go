package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrUsernameTaken, http.StatusConflict},
		{fmt.Errorf("submit: %w", ErrSubmitInProgress), http.StatusTooManyRequests},
		{fmt.Errorf("%w: 6000000 bytes", ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}
