package report_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"
	"game-warehouse/feature/report"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, snap *normalize.Snapshot) *fiber.App {
	store, err := normalize.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	if snap != nil {
		_, _, err = store.LoadOrBuild(context.Background(), "test-fingerprint", func() (*normalize.Snapshot, error) {
			return snap, nil
		})
		require.NoError(t, err)
	}

	app := fiber.New()
	handler := report.NewHandler(report.NewService(store, zap.NewNop()))
	handler.RegisterRoutes(app.Group("/api"))
	return app
}

func testSnapshot() *normalize.Snapshot {
	return &normalize.Snapshot{
		Options: normalize.Options{ReferenceDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		Developers: []models.Developer{
			{ID: 1, Name: "Nova Interactive", GameCount: 2},
			{ID: 2, Name: "Zed Works", GameCount: 1},
		},
		Genres: []models.Genre{{ID: 1, Name: "Action", GameCount: 3}},
	}
}

func TestHandleSummary(t *testing.T) {
	t.Run("ReturnsCounts", func(t *testing.T) {
		app := newTestApp(t, testSnapshot())

		resp, err := app.Test(httptest.NewRequest("GET", "/api/snapshot/summary", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var summary report.Summary
		require.NoError(t, json.Unmarshal(body, &summary))
		assert.Equal(t, "test-fingerprint", summary.Fingerprint)
		assert.Equal(t, 2, summary.TableCounts["developers"])
		assert.Equal(t, 1, summary.TableCounts["genres"])
	})

	t.Run("NotFoundWithoutSnapshot", func(t *testing.T) {
		app := newTestApp(t, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/snapshot/summary", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleDimension(t *testing.T) {
	t.Run("KnownDimension", func(t *testing.T) {
		app := newTestApp(t, testSnapshot())

		resp, err := app.Test(httptest.NewRequest("GET", "/api/snapshot/dimensions/developers", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var payload struct {
			Dimension string             `json:"dimension"`
			Rows      []models.Developer `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "developers", payload.Dimension)
		require.Len(t, payload.Rows, 2)
		assert.Equal(t, "Nova Interactive", payload.Rows[0].Name)
	})

	t.Run("UnknownDimension", func(t *testing.T) {
		app := newTestApp(t, testSnapshot())

		resp, err := app.Test(httptest.NewRequest("GET", "/api/snapshot/dimensions/weapons", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("NotFoundWithoutSnapshot", func(t *testing.T) {
		app := newTestApp(t, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/snapshot/dimensions/tags", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
