package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nextChapter() *ChapterRef {
	return &ChapterRef{
		ID:     30,
		Number: 3,
		Exercises: []ExerciseRef{
			{ID: 31, Section: intp(1), Number: 1},
			{ID: 32, Section: intp(1), Number: 2},
			{ID: 33, Section: intp(2), Number: 1},
			{ID: 34, Number: 9},
		},
	}
}

func planAt(mode PlanMode) PlanState {
	id, number := uint(20), 2
	return PlanState{Mode: mode, ChapterID: &id, ChapterNumber: &number, Targets: []uint{21, 22}}
}

func TestAdvanceIfCompleteChapterwise(t *testing.T) {
	got, advanced := AdvanceIfComplete(planAt(ModeChapterwise), 100, nextChapter())

	assert.True(t, advanced)
	assert.Equal(t, uint(30), *got.ChapterID)
	assert.Equal(t, 3, *got.ChapterNumber)
	assert.Equal(t, []uint{31, 32, 33, 34}, got.Targets)
}

func TestAdvanceIfCompleteSubchapterwise(t *testing.T) {
	got, advanced := AdvanceIfComplete(planAt(ModeSubchapterwise), 100, nextChapter())

	assert.True(t, advanced)
	assert.Equal(t, []uint{31, 32}, got.Targets)
}

func TestAdvanceIfCompleteNoop(t *testing.T) {
	plan := planAt(ModeChapterwise)

	tests := []struct {
		name     string
		plan     PlanState
		progress int
		next     *ChapterRef
	}{
		{name: "not finished", plan: plan, progress: 99, next: nextChapter()},
		{name: "last chapter", plan: plan, progress: 100, next: nil},
		{name: "own pace", plan: planAt(ModeOwnPace), progress: 100, next: nextChapter()},
		{name: "no chapter", plan: PlanState{Mode: ModeChapterwise}, progress: 100, next: nextChapter()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, advanced := AdvanceIfComplete(tt.plan, tt.progress, tt.next)
			assert.False(t, advanced)
			assert.Equal(t, tt.plan, got)
		})
	}
}

func TestCoveredTargets(t *testing.T) {
	chapters := map[int]*ChapterRef{
		1: {ID: 10, Number: 1, Exercises: []ExerciseRef{
			{ID: 11, Section: intp(1), Number: 1},
			{ID: 12, Section: intp(2), Number: 1},
		}},
		2: {ID: 20, Number: 2, Exercises: []ExerciseRef{
			{ID: 21, Section: intp(1), Number: 1},
			{ID: 22, Section: intp(2), Number: 1},
		}},
		3: nextChapter(),
	}

	// 起始章整章，中间章按模式，当前章取现有目标
	got := CoveredTargets(ModeSubchapterwise, 1, 3, []uint{31, 32}, chapters)
	assert.Equal(t, []uint{11, 12, 21, 31, 32}, got)

	got = CoveredTargets(ModeChapterwise, 1, 3, []uint{31, 32, 33, 34}, chapters)
	assert.Equal(t, []uint{11, 12, 21, 22, 31, 32, 33, 34}, got)

	// 尚未推进时只有当前目标
	assert.Equal(t, []uint{11, 12}, CoveredTargets(ModeChapterwise, 1, 1, []uint{12, 11}, chapters))
}

func TestTargetsRoundTrip(t *testing.T) {
	a := DecodeTargets(EncodeTargets([]uint{4, 1, 3, 2}))
	b := DecodeTargets(EncodeTargets([]uint{2, 3, 1, 4}))
	assert.ElementsMatch(t, []uint{1, 2, 3, 4}, a)
	assert.Equal(t, a, b)

	assert.Equal(t, "", EncodeTargets(nil))
	assert.Nil(t, DecodeTargets(""))
	assert.Nil(t, DecodeTargets("1,2,3"))
	assert.Nil(t, DecodeTargets(`{"ids":[1]}`))
	assert.Equal(t, 0, Progress([]uint{1}, DecodeTargets("not json")))
}

func TestPlanModeDisplay(t *testing.T) {
	assert.Equal(t, "Own Pace", ModeOwnPace.DisplayName())
	assert.Equal(t, "Unknown", PlanMode("weekly").DisplayName())
	assert.False(t, PlanMode("weekly").Valid())
}
