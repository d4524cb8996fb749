package service

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReviewStatus(t *testing.T) {
	status, err := ParseReviewStatus(" Approved ")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestApproved, status)

	status, err = ParseReviewStatus("rejected")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestRejected, status)

	for _, s := range []string{"", "pending", "maybe"} {
		_, err := ParseReviewStatus(s)
		assert.ErrorIs(t, err, util.ErrInvalidRequestStatus, s)
	}
}
