package importer

import (
	"context"
	"testing"

	"game-warehouse/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	engine string
	devs   []models.Developer
	err    error
}

func (s *stubSource) Engine() string {
	return s.engine
}

func (s *stubSource) FirstDevelopers(ctx context.Context, n int) ([]models.Developer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n < len(s.devs) {
		return s.devs[:n], nil
	}
	return s.devs, nil
}

func TestVerifyDimensionIDs(t *testing.T) {
	devs := []models.Developer{
		{ID: 1, Name: "Nova Interactive"},
		{ID: 2, Name: "Zed Works"},
	}

	t.Run("AllEnginesAgree", func(t *testing.T) {
		sources := []DimensionSource{
			&stubSource{engine: "mysql", devs: devs},
			&stubSource{engine: "postgres", devs: devs},
			&stubSource{engine: "mongo", devs: devs},
		}

		res, err := VerifyDimensionIDs(context.Background(), zap.NewNop(), sources, 10)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, []string{"mysql", "postgres", "mongo"}, res.Engines)
	})

	t.Run("IDMismatchReported", func(t *testing.T) {
		swapped := []models.Developer{
			{ID: 1, Name: "Zed Works"},
			{ID: 2, Name: "Nova Interactive"},
		}
		sources := []DimensionSource{
			&stubSource{engine: "mysql", devs: devs},
			&stubSource{engine: "mongo", devs: swapped},
		}

		res, err := VerifyDimensionIDs(context.Background(), zap.NewNop(), sources, 10)
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Len(t, res.Mismatches, 2)
		assert.Equal(t, "mongo", res.Mismatches[0].Engine)
		assert.Equal(t, "mysql", res.Mismatches[0].Reference)
	})

	t.Run("RowCountMismatchReported", func(t *testing.T) {
		sources := []DimensionSource{
			&stubSource{engine: "mysql", devs: devs},
			&stubSource{engine: "postgres", devs: devs[:1]},
		}

		res, err := VerifyDimensionIDs(context.Background(), zap.NewNop(), sources, 10)
		require.NoError(t, err)
		assert.False(t, res.OK())
		require.Len(t, res.Mismatches, 1)
		assert.Contains(t, res.Mismatches[0].Detail, "row count")
	})

	t.Run("NeedsTwoEngines", func(t *testing.T) {
		sources := []DimensionSource{&stubSource{engine: "mysql", devs: devs}}

		_, err := VerifyDimensionIDs(context.Background(), zap.NewNop(), sources, 10)
		assert.Error(t, err)
	})

	t.Run("SourceErrorPropagates", func(t *testing.T) {
		sources := []DimensionSource{
			&stubSource{engine: "mysql", devs: devs},
			&stubSource{engine: "postgres", err: assert.AnError},
		}

		_, err := VerifyDimensionIDs(context.Background(), zap.NewNop(), sources, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})
}
