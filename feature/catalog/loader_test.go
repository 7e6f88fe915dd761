package catalog_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"game-warehouse/core/storage/mocks"
	"game-warehouse/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const gamesCSV = `appid,name,price,developers,genres,tags
10,Portal Redux,9.99,"[""Nova Interactive""]","[""Puzzle""]","{""puzzle"":120}"
20,Dust Racer,19.99,"[""Zed Works""]","[""Action""]",
abc,Broken Row,,,,
30,No Price,,,,
`

const reviewsCSV = `review_id,app_id,language,review,recommended,votes_helpful,author.steamid
100,10,english,great,true,3,76561190000000001
101,10,german,meh,false,1,
bogus,10,english,x,true,0,5
`

const completionsCSV = `id,game_name,main_story,main_extra,completionist,submissions
1,Portal Redux,300,420,900,12
2,,300,,,4
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadGames(t *testing.T) {
	loader := catalog.NewLoader(nil, "", zap.NewNop())
	path := writeDataset(t, "games.csv", gamesCSV)

	games, res, err := loader.LoadGames(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, games, 3)
	assert.Equal(t, 10, games[0].AppID)
	assert.Equal(t, []string{"Nova Interactive"}, games[0].Developers)
	assert.Equal(t, map[string]int{"puzzle": 120}, games[0].Tags)
	assert.Nil(t, games[2].Price)

	assert.Equal(t, 1, res.Malformed)
	assert.Equal(t, "games.csv", res.Source.Name)
	assert.Equal(t, int64(len(gamesCSV)), res.Source.Size)

	sum := sha256.Sum256([]byte(gamesCSV))
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Source.SHA256)
}

func TestLoader_LoadReviews(t *testing.T) {
	loader := catalog.NewLoader(nil, "", zap.NewNop())
	path := writeDataset(t, "reviews.csv", reviewsCSV)

	reviews, res, err := loader.LoadReviews(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].AuthorSteamID)
	assert.Equal(t, int64(76561190000000001), *reviews[0].AuthorSteamID)
	assert.Nil(t, reviews[1].AuthorSteamID)
	assert.Equal(t, 1, res.Malformed)
}

func TestLoader_LoadCompletions(t *testing.T) {
	loader := catalog.NewLoader(nil, "", zap.NewNop())
	path := writeDataset(t, "hltb.csv", completionsCSV)

	records, res, err := loader.LoadCompletions(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Portal Redux", records[0].GameName)
	require.NotNil(t, records[0].MainExtraMinutes)
	assert.Equal(t, 420, *records[0].MainExtraMinutes)
	assert.Equal(t, 1, res.Malformed)
}

func TestLoader_BucketFallback(t *testing.T) {
	client := &mocks.Client{}
	client.On("GetObject", mock.Anything, "datasets", "missing/games.csv", mock.Anything).
		Return(io.NopCloser(strings.NewReader(gamesCSV)), nil)

	loader := catalog.NewLoader(client, "datasets", zap.NewNop())

	games, res, err := loader.LoadGames(context.Background(), "missing/games.csv")
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "games.csv", res.Source.Name)
	client.AssertExpectations(t)
}

func TestLoader_MissingEverywhere(t *testing.T) {
	t.Run("NoClient", func(t *testing.T) {
		loader := catalog.NewLoader(nil, "", zap.NewNop())
		_, _, err := loader.LoadGames(context.Background(), "does/not/exist.csv")
		assert.Error(t, err)
	})

	t.Run("BucketErrors", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("GetObject", mock.Anything, "datasets", "gone.csv", mock.Anything).
			Return(nil, assert.AnError)

		loader := catalog.NewLoader(client, "datasets", zap.NewNop())
		_, _, err := loader.LoadGames(context.Background(), "gone.csv")
		assert.Error(t, err)
		client.AssertExpectations(t)
	})
}

func TestLoader_FingerprintStability(t *testing.T) {
	loader := catalog.NewLoader(nil, "", zap.NewNop())
	path := writeDataset(t, "games.csv", gamesCSV)

	_, first, err := loader.LoadGames(context.Background(), path)
	require.NoError(t, err)
	_, second, err := loader.LoadGames(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, first.Source, second.Source)
}
