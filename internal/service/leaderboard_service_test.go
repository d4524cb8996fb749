package service

import (
	"mathtrack_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaderboardUsers() []model.User {
	mk := func(id uint, name string, points, streak, longest int, team model.Team, show bool) model.User {
		u := model.User{Username: name, TotalPoints: points, StreakDays: streak, LongestStreak: longest, Team: team, ShowLeaderboard: show}
		u.ID = id
		return u
	}
	return []model.User{
		mk(1, "ada", 500, 2, 9, model.TeamRed, true),
		mk(2, "bob", 900, 5, 5, model.TeamBlue, true),
		mk(3, "cy", 100, 0, 3, model.TeamRed, true),
		mk(4, "hidden", 9999, 99, 99, model.TeamGreen, false),
	}
}

func leaderboardCounts() Counts {
	return Counts{
		Total: map[uint]int64{1: 40, 2: 30, 3: 40, 4: 500},
		Week:  map[uint]int64{3: 7, 2: 1},
		Month: map[uint]int64{1: 2},
		Year:  map[uint]int64{1: 40, 2: 30, 3: 40},
	}
}

func usernames(entries []LeaderboardEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Username)
	}
	return names
}

func TestBuildLeaderboard(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortTotalExercises, []string{"ada", "cy", "bob"}},
		{SortPoints, []string{"bob", "ada", "cy"}},
		{SortStreak, []string{"bob", "ada", "cy"}},
		{SortLongestStreak, []string{"ada", "bob", "cy"}},
		{SortWeek, []string{"cy", "bob", "ada"}},
		{SortMonth, []string{"ada", "bob", "cy"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			entries := BuildLeaderboard(leaderboardUsers(), leaderboardCounts(), tt.key)
			assert.Equal(t, tt.want, usernames(entries))
			for i, e := range entries {
				assert.Equal(t, i+1, e.Rank)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortStreak, ParseSortKey("streak"))
	assert.Equal(t, SortTotalExercises, ParseSortKey(""))
	assert.Equal(t, SortTotalExercises, ParseSortKey("DROP TABLE"))
}

func TestTeamTotals(t *testing.T) {
	entries := BuildLeaderboard(leaderboardUsers(), leaderboardCounts(), SortTotalExercises)
	teams := TeamTotals(entries)
	require.Len(t, teams, 3)

	assert.Equal(t, TeamScore{Team: model.TeamRed, Members: 2, Exercises: 80, Points: 600}, teams[0])
	assert.Equal(t, TeamScore{Team: model.TeamBlue, Members: 1, Exercises: 30, Points: 900}, teams[1])
	// 隐藏的用户不计入队伍
	assert.Equal(t, TeamScore{Team: model.TeamGreen}, teams[2])
}
