package service

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestProfileVisibility(t *testing.T) {
	user := &model.User{PublicProfile: true, PublicStats: false, PublicActivity: true, PublicUploads: false}
	user.ID = 5

	profile, stats, activity, uploads := ProfileVisibility(user, 9)
	assert.True(t, profile)
	assert.False(t, stats)
	assert.True(t, activity)
	assert.False(t, uploads)

	user.PublicProfile = false
	profile, stats, activity, uploads = ProfileVisibility(user, 5)
	assert.True(t, profile && stats && activity && uploads)
}

func TestSettingsChangesNickname(t *testing.T) {
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -10)
	user := &model.User{Nickname: "Ada", NicknameChangedAt: &recent}
	valid := NewCompanionService().Valid

	_, err := SettingsChanges(user, UpdateSettingsRequest{Nickname: strp("Countess")}, valid, now)
	assert.ErrorIs(t, err, util.ErrNicknameCooldown)

	// 同名不算修改
	fields, err := SettingsChanges(user, UpdateSettingsRequest{Nickname: strp(" Ada ")}, valid, now)
	require.NoError(t, err)
	assert.Empty(t, fields)

	old := now.AddDate(0, 0, -31)
	user.NicknameChangedAt = &old
	fields, err = SettingsChanges(user, UpdateSettingsRequest{Nickname: strp("Countess")}, valid, now)
	require.NoError(t, err)
	assert.Equal(t, "Countess", fields["nickname"])
	assert.Equal(t, now, fields["nickname_changed_at"])
}

func TestSettingsChangesFlagsAndCompanion(t *testing.T) {
	now := time.Now()
	valid := NewCompanionService().Valid

	fields, err := SettingsChanges(&model.User{}, UpdateSettingsRequest{
		PublicUploads:   boolp(true),
		ShowLeaderboard: boolp(false),
		CompanionID:     intp(3),
	}, valid, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"public_uploads":   true,
		"show_leaderboard": false,
		"companion_id":     3,
	}, fields)

	_, err = SettingsChanges(&model.User{}, UpdateSettingsRequest{CompanionID: intp(42)}, valid, now)
	assert.ErrorIs(t, err, util.ErrUnknownCompanion)
}
