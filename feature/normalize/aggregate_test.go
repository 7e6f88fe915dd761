package normalize

import (
	"testing"
	"time"

	"game-warehouse/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Build(testGames(), testReviews(), testCompletions(), testOptions())
	require.NoError(t, err)
	return snap
}

func TestAggregate_UserProfiles(t *testing.T) {
	snap := buildTestSnapshot(t)

	// The authorless review (id 103) contributes to no profile.
	require.Len(t, snap.UserProfiles, 2)

	p := snap.UserProfiles[0]
	assert.Equal(t, int64(1), p.AuthorSteamID)
	assert.Equal(t, 10, p.NumGamesOwned)
	assert.Equal(t, 2, p.NumReviews)
	assert.Equal(t, float64(900), p.TotalPlaytimeMinutes)
	assert.Equal(t, 1, p.PositiveReviewCount)
	assert.Equal(t, 1, p.NegativeReviewCount)
	assert.Equal(t, int64(4), p.HelpfulVotesReceived)
	// "great" (5 runes) and "meh" (3 runes) average to 4.
	assert.Equal(t, 4.0, p.AvgReviewLength)
	assert.Equal(t, time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC), p.FirstReviewDate)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), p.LastReviewDate)

	assert.Equal(t, int64(2), snap.UserProfiles[1].AuthorSteamID)
}

func TestAggregate_ReviewSummaries(t *testing.T) {
	snap := buildTestSnapshot(t)

	// One summary per game in the union: 10, 20 and the reviewless 30.
	require.Len(t, snap.ReviewSummaries, 3)

	s10 := snap.ReviewSummaries[0]
	assert.Equal(t, 10, s10.GameAppID)
	assert.Equal(t, 2, s10.TotalReviews)
	assert.Equal(t, 1, s10.PositiveReviews)
	assert.Equal(t, 1, s10.NegativeReviews)
	assert.Equal(t, 75.0, s10.AvgPlaytimeAtReview)
	assert.Equal(t, 75.0, s10.MedianPlaytimeAtReview)
	assert.Equal(t, 2.0, s10.AvgHelpfulVotes)
	assert.Equal(t, 0.5, s10.SteamPurchaseRatio)
	// One review per language; english was seen first.
	assert.Equal(t, "english", s10.MostCommonLanguage)

	s20 := snap.ReviewSummaries[1]
	assert.Equal(t, 20, s20.GameAppID)
	assert.Equal(t, 2, s20.TotalReviews)
	assert.Equal(t, 1, s20.EarlyAccessReviewCount)
	// The authorless review has no playtime; the median skips it.
	assert.Equal(t, 60.0, s20.MedianPlaytimeAtReview)
	assert.Equal(t, 0.5, s20.SteamPurchaseRatio)

	s30 := snap.ReviewSummaries[2]
	assert.Equal(t, 30, s30.GameAppID)
	assert.Equal(t, 0, s30.TotalReviews)
	assert.Equal(t, 0.0, s30.SteamPurchaseRatio)
	assert.Equal(t, "", s30.MostCommonLanguage)
}

func TestAggregate_PurchaseRatioBounds(t *testing.T) {
	snap := buildTestSnapshot(t)
	for _, s := range snap.ReviewSummaries {
		assert.GreaterOrEqual(t, s.SteamPurchaseRatio, 0.0)
		assert.LessOrEqual(t, s.SteamPurchaseRatio, 1.0)
	}
}

func TestAggregate_DeveloperStats(t *testing.T) {
	snap := buildTestSnapshot(t)

	require.Len(t, snap.DeveloperStats, 2)

	// Nova Interactive (id 1): games 10 and 20, both priced.
	nova := snap.DeveloperStats[0]
	assert.Equal(t, 1, nova.DeveloperID)
	assert.Equal(t, 2, nova.TotalGames)
	require.NotNil(t, nova.AvgGamePrice)
	assert.InDelta(t, 14.99, *nova.AvgGamePrice, 1e-9)
	assert.Nil(t, nova.AvgMetacriticScore)
	// Genres across games 10 and 20: Puzzle, Action, Action.
	assert.Equal(t, "Action", nova.MostCommonGenre)

	// Zed Works (id 2): games 20 and 30; game 30 has no price.
	zed := snap.DeveloperStats[1]
	assert.Equal(t, 2, zed.DeveloperID)
	assert.Equal(t, 2, zed.TotalGames)
	require.NotNil(t, zed.AvgGamePrice)
	assert.InDelta(t, 19.99, *zed.AvgGamePrice, 1e-9)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"Odd", []float64{3, 1, 2}, 2},
		{"Even", []float64{4, 1, 3, 2}, 2.5},
		{"Single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestModalKey(t *testing.T) {
	t.Run("HighestCountWins", func(t *testing.T) {
		got := modalKey(map[string]int{"a": 1, "b": 3}, map[string]int{"a": 0, "b": 1})
		assert.Equal(t, "b", got)
	})

	t.Run("TieBreaksTowardFirstSeen", func(t *testing.T) {
		got := modalKey(map[string]int{"a": 2, "b": 2}, map[string]int{"a": 5, "b": 1})
		assert.Equal(t, "b", got)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", modalKey(nil, nil))
	})
}

func TestAggregate_IgnoresGamesTableForProfiles(t *testing.T) {
	// Profiles exist even for reviews of games missing from the games
	// table; aggregation never requires the join to succeed.
	reviews := []models.RawReview{
		{ReviewID: 1, AppID: 999, AuthorSteamID: int64Ptr(5), Recommended: true, Review: "x", TimestampCreated: 1700000000},
	}
	snap, err := Build(testGames(), reviews, nil, testOptions())
	require.NoError(t, err)

	require.Len(t, snap.UserProfiles, 1)
	assert.Equal(t, int64(5), snap.UserProfiles[0].AuthorSteamID)

	var found bool
	for _, s := range snap.ReviewSummaries {
		if s.GameAppID == 999 {
			found = true
			assert.Equal(t, 1, s.TotalReviews)
		}
	}
	assert.True(t, found)
}
