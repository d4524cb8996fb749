package service

import (
	"math/rand"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitivenessTiers(t *testing.T) {
	levels := CompetitivenessTiers(rand.New(rand.NewSource(42)), len(FakeProfiles))
	require.Len(t, levels, 15)

	var high, medium, low int
	for _, c := range levels {
		switch {
		case c >= 0.7 && c <= 0.9:
			high++
		case c >= 0.4 && c <= 0.6:
			medium++
		case c >= 0.1 && c <= 0.3:
			low++
		default:
			t.Fatalf("competitiveness %v outside every tier", c)
		}
	}
	assert.Equal(t, 5, high)
	assert.Equal(t, 3, low)
	assert.Equal(t, 7, medium)
}

func TestNextExercises(t *testing.T) {
	exercises := make([]model.Exercise, 5)
	for i := range exercises {
		exercises[i].ID = uint(i + 10)
	}

	assert.Equal(t, []uint{10, 12}, NextExercises(exercises, map[uint]bool{11: true}, 2))
	assert.Equal(t, []uint{14}, NextExercises(exercises, map[uint]bool{10: true, 11: true, 12: true, 13: true}, 3))
	assert.Empty(t, NextExercises(exercises, map[uint]bool{10: true, 11: true, 12: true, 13: true, 14: true}, 3))
}

func TestSimulationUpdateConfigResetsTicker(t *testing.T) {
	s := NewSimulationService(nil, nil, nil, nil, config.SimulationConfig{IntervalMinutes: 30})

	s.UpdateConfig(config.SimulationConfig{IntervalMinutes: 30})
	assert.Len(t, s.reset, 0)

	s.UpdateConfig(config.SimulationConfig{IntervalMinutes: 5, Enabled: true})
	assert.Len(t, s.reset, 1)
	assert.Equal(t, 5, s.cfg.Load().IntervalMinutes)

	// 重复通知不阻塞
	s.UpdateConfig(config.SimulationConfig{IntervalMinutes: 10, Enabled: true})
	assert.Len(t, s.reset, 1)
}
