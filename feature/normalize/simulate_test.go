package normalize

import (
	"testing"
	"time"

	"game-warehouse/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedGame(appID int, price float64, discount int) models.RawGame {
	return models.RawGame{AppID: appID, Name: "g", Price: &price, Discount: &discount}
}

func TestSimulatePriceHistory(t *testing.T) {
	t.Run("TwelvePointsNewestFirst", func(t *testing.T) {
		points := SimulatePriceHistory([]models.RawGame{pricedGame(10, 9.99, 25)}, testRef)
		require.Len(t, points, 12)

		assert.Equal(t, testRef, points[0].RecordedAt)
		for i := 1; i < 12; i++ {
			assert.True(t, points[i].RecordedAt.Before(points[i-1].RecordedAt))
			assert.Equal(t, testRef.AddDate(0, -i, 0), points[i].RecordedAt)
		}
	})

	t.Run("HeadCarriesCurrentPriceExactly", func(t *testing.T) {
		points := SimulatePriceHistory([]models.RawGame{pricedGame(10, 9.99, 25)}, testRef)
		assert.Equal(t, 9.99, points[0].Price)
		assert.Equal(t, 25, points[0].DiscountPercent)
	})

	t.Run("Deterministic", func(t *testing.T) {
		games := []models.RawGame{pricedGame(10, 9.99, 0), pricedGame(77, 59.99, 50)}
		first := SimulatePriceHistory(games, testRef)
		second := SimulatePriceHistory(games, testRef)
		assert.Equal(t, first, second)
	})

	t.Run("GameOrderDoesNotPerturbSeries", func(t *testing.T) {
		a := pricedGame(10, 9.99, 0)
		b := pricedGame(77, 59.99, 50)

		forward := SimulatePriceHistory([]models.RawGame{a, b}, testRef)
		reversed := SimulatePriceHistory([]models.RawGame{b, a}, testRef)

		byGame := func(points []models.PriceHistoryPoint, appID int) []models.PriceHistoryPoint {
			var out []models.PriceHistoryPoint
			for _, p := range points {
				if p.GameAppID == appID {
					out = append(out, p)
				}
			}
			return out
		}
		assert.Equal(t, byGame(forward, 10), byGame(reversed, 10))
		assert.Equal(t, byGame(forward, 77), byGame(reversed, 77))
	})

	t.Run("VariationStaysInBand", func(t *testing.T) {
		base := 20.0
		points := SimulatePriceHistory([]models.RawGame{pricedGame(42, base, 0)}, testRef)
		for _, p := range points[1:] {
			assert.GreaterOrEqual(t, p.Price, base*0.9-0.01)
			assert.LessOrEqual(t, p.Price, base*1.1+0.01)
		}
	})

	t.Run("DiscountsComeFromFixedSteps", func(t *testing.T) {
		valid := map[int]bool{0: true}
		for _, s := range discountSteps {
			valid[s] = true
		}
		points := SimulatePriceHistory([]models.RawGame{pricedGame(42, 20, 0)}, testRef)
		for _, p := range points[1:] {
			assert.True(t, valid[p.DiscountPercent], "unexpected discount %d", p.DiscountPercent)
		}
	})

	t.Run("UnpricedGamesSkipped", func(t *testing.T) {
		games := []models.RawGame{
			{AppID: 1, Name: "free"},
			pricedGame(2, 0, 0),
			pricedGame(3, 5, 0),
		}
		points := SimulatePriceHistory(games, testRef)
		require.Len(t, points, 12)
		assert.Equal(t, 3, points[0].GameAppID)
	})

	t.Run("MonthEndReferenceCoversEveryTrailingMonth", func(t *testing.T) {
		ref := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
		points := SimulatePriceHistory([]models.RawGame{pricedGame(10, 9.99, 0)}, ref)
		require.Len(t, points, 12)

		want := []time.Time{
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		}
		seen := map[string]int{}
		for i, p := range points {
			assert.Equal(t, want[i], p.RecordedAt)
			seen[p.RecordedAt.Format("2006-01")]++
		}
		// One point per trailing calendar month, no doubling into
		// neighbors when the day overflows a short month.
		for month, n := range seen {
			assert.Equal(t, 1, n, "month %s", month)
		}
	})

	t.Run("ReferenceDateTruncatedToDay", func(t *testing.T) {
		noisy := time.Date(2025, 3, 1, 17, 45, 12, 999, time.FixedZone("X", 3600))
		points := SimulatePriceHistory([]models.RawGame{pricedGame(10, 9.99, 0)}, noisy)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), points[0].RecordedAt)
	})
}

func TestPriceSeed(t *testing.T) {
	// Adjacent app ids must not map to adjacent seeds.
	assert.NotEqual(t, priceSeed(1), priceSeed(2))
	assert.NotEqual(t, priceSeed(1)+1, priceSeed(2))
	// Stable across calls.
	assert.Equal(t, priceSeed(12345), priceSeed(12345))
}
