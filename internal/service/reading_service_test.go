package service

import (
	"mathtrack_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadingSection(t *testing.T) {
	chapter := &model.Chapter{
		Number:       2,
		SectionCount: 4,
		Exercises: []model.Exercise{
			{Section: intp(1), Number: 1},
			{Section: intp(3), Number: 1},
			{Number: 7},
		},
	}

	assert.False(t, IsReadingSection(chapter, 1))
	assert.True(t, IsReadingSection(chapter, 2))
	assert.False(t, IsReadingSection(chapter, 3))
	assert.True(t, IsReadingSection(chapter, 4))
	assert.False(t, IsReadingSection(chapter, 5))
	assert.False(t, IsReadingSection(chapter, 0))

	// 未设置小节总数时以最大节号为界
	chapter.SectionCount = 0
	assert.True(t, IsReadingSection(chapter, 2))
	assert.False(t, IsReadingSection(chapter, 4))
}
