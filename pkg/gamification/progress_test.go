package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress([]uint{1, 2}, nil))
	assert.Equal(t, 0, Progress(nil, []uint{}))
	assert.Equal(t, 100, Progress([]uint{1, 2, 3, 4, 5}, []uint{1, 2, 3, 4}))
	assert.Equal(t, 33, Progress([]uint{1}, []uint{1, 2, 3}))
	assert.Equal(t, 66, Progress([]uint{1, 2, 2, 2}, []uint{1, 2, 3}))
	assert.Equal(t, 50, Progress([]uint{2}, []uint{1, 2, 2}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 42, Percent(42, 100))
	assert.Equal(t, 100, Percent(7, 5))
}

func intp(v int) *int { return &v }

// 第 1 章：第 1 节 3 题（id 1-3），第 2 节 2 题（id 4-5）
// 第 2 章：无节号 2 题（id 6-7）
func sampleCatalog() []ExerciseRef {
	return []ExerciseRef{
		{ID: 1, ChapterID: 10, ChapterNumber: 1, Section: intp(1), Number: 1, Difficulty: "easy"},
		{ID: 2, ChapterID: 10, ChapterNumber: 1, Section: intp(1), Number: 2, Difficulty: "easy"},
		{ID: 3, ChapterID: 10, ChapterNumber: 1, Section: intp(1), Number: 3, Difficulty: "easy"},
		{ID: 4, ChapterID: 10, ChapterNumber: 1, Section: intp(2), Number: 1, Difficulty: "easy"},
		{ID: 5, ChapterID: 10, ChapterNumber: 1, Section: intp(2), Number: 2, Difficulty: "easy"},
		{ID: 6, ChapterID: 20, ChapterNumber: 2, Number: 1, Difficulty: "hard"},
		{ID: 7, ChapterID: 20, ChapterNumber: 2, Number: 2, Difficulty: "hard"},
	}
}

func TestResolveBatchSectionComplete(t *testing.T) {
	got := ResolveBatch(sampleCatalog(), []uint{1}, []uint{2, 3})
	require.Len(t, got, 2)

	// 已完成 1 题 + 本批 2 题 = 第 1 节全部 3 题，两题都带完成标记
	assert.Equal(t, ScoredExercise{ExerciseID: 2, IsSectionComplete: true, Points: 60}, got[0])
	assert.Equal(t, ScoredExercise{
		ExerciseID:        3,
		IsLastInSection:   true,
		IsSectionComplete: true,
		Points:            75,
	}, got[1])
}

func TestResolveBatchChapterComplete(t *testing.T) {
	got := ResolveBatch(sampleCatalog(), []uint{1, 2, 3}, []uint{5, 4})
	require.Len(t, got, 2)

	assert.Equal(t, uint(5), got[0].ExerciseID)
	assert.True(t, got[0].IsLastInSection)
	assert.True(t, got[0].IsSectionComplete)
	assert.True(t, got[0].IsChapterComplete)
	assert.Equal(t, 175, got[0].Points)

	assert.Equal(t, ScoredExercise{
		ExerciseID:        4,
		IsSectionComplete: true,
		IsChapterComplete: true,
		Points:            160,
	}, got[1])
	assert.Equal(t, 335, TotalPoints(got))
}

func TestResolveBatchWholeChapterInOneRequest(t *testing.T) {
	got := ResolveBatch(sampleCatalog(), nil, []uint{6, 7})
	require.Len(t, got, 2)

	// 无节号的题目按整章作为一组
	assert.False(t, got[0].IsLastInSection)
	assert.True(t, got[0].IsSectionComplete)
	assert.True(t, got[0].IsChapterComplete)
	assert.Equal(t, 189, got[0].Points)
	assert.True(t, got[1].IsLastInSection)
	assert.True(t, got[1].IsSectionComplete)
	assert.True(t, got[1].IsChapterComplete)
	assert.Equal(t, CalculatePoints("hard", 2, true, true, true), got[1].Points)
}

func TestResolveBatchSkipsDuplicatesAndUnknown(t *testing.T) {
	got := ResolveBatch(sampleCatalog(), []uint{1}, []uint{3, 3, 1, 99})
	require.Len(t, got, 1)
	assert.Equal(t, ScoredExercise{ExerciseID: 3, IsLastInSection: true, Points: 25}, got[0])

	assert.Empty(t, ResolveBatch(sampleCatalog(), []uint{1}, []uint{1}))
}

func TestSortedIDs(t *testing.T) {
	assert.Equal(t, []uint{1, 3, 9}, SortedIDs([]uint{9, 3, 1, 3}))
}
