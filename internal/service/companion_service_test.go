package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanionLookup(t *testing.T) {
	s := NewCompanionService()

	assert.Len(t, s.List(), 5)
	assert.Equal(t, "Clever Cat", s.Get(4).Name)
	assert.Equal(t, "Wise Owl", s.Get(99).Name)
	assert.True(t, s.Valid(5))
	assert.False(t, s.Valid(0))
}

func TestCompanionMessages(t *testing.T) {
	s := NewCompanionService()

	login := s.LoginMessage(2)
	assert.Equal(t, "🦊", login.Emoji)
	assert.Contains(t, loginMessages, login.Message)

	assert.Contains(t, largeUploadMessages, s.UploadMessage(3, true).Message)
	assert.Contains(t, smallUploadMessages, s.UploadMessage(3, false).Message)
}

func TestIsLargeUpload(t *testing.T) {
	assert.False(t, IsLargeUpload(1, 9))
	assert.True(t, IsLargeUpload(1, 10))
	assert.True(t, IsLargeUpload(2, 2))
}
