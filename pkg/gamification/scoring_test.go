package gamification

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePointsNoBonus(t *testing.T) {
	bases := map[string]int{"easy": 10, "medium": 20, "hard": 30}

	for difficulty, base := range bases {
		for chapter := 1; chapter <= 40; chapter++ {
			want := int(math.Round(float64(base*(100+5*(chapter-1))) / 100))
			got := CalculatePoints(difficulty, chapter, false, false, false)
			assert.Equal(t, want, got, "difficulty=%s chapter=%d", difficulty, chapter)
		}
	}
}

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		chapter    int
		last       bool
		section    bool
		full       bool
		want       int
	}{
		{name: "all bonuses chapter 3", difficulty: "hard", chapter: 3, last: true, section: true, full: true, want: 215},
		{name: "easy chapter 1", difficulty: "easy", chapter: 1, want: 10},
		{name: "half rounds up", difficulty: "easy", chapter: 2, want: 11},
		{name: "unknown difficulty", difficulty: "brutal", chapter: 1, want: 10},
		{name: "empty difficulty", difficulty: "", chapter: 1, want: 10},
		{name: "case insensitive", difficulty: "MEDIUM", chapter: 1, want: 20},
		{name: "last in section", difficulty: "medium", chapter: 1, last: true, want: 35},
		{name: "section complete", difficulty: "medium", chapter: 2, section: true, want: 74},
		{name: "chapter below one", difficulty: "hard", chapter: 0, want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePoints(tt.difficulty, tt.chapter, tt.last, tt.section, tt.full))
		})
	}
}

func TestSeedPointsMatchesScoring(t *testing.T) {
	assert.Equal(t, CalculatePoints("hard", 7, false, false, false), SeedPoints("hard", 7))
	assert.Equal(t, 39, SeedPoints("hard", 7))
}
