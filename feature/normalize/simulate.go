package normalize

import (
	"math"
	"math/rand"
	"time"

	"game-warehouse/feature/catalog/models"
)

// discountSteps are the discount percentages a simulated sale can take.
var discountSteps = []int{10, 15, 20, 25, 33, 50, 75}

// discountChance is the per-month probability of a simulated sale.
const discountChance = 0.3

// SimulatePriceHistory generates a synthetic monthly price series per
// priced game: exactly twelve points, one per trailing calendar month
// ending at referenceDate, newest first. The newest point carries the
// game's current price and discount verbatim; older months deviate
// pseudo-randomly.
//
// Each game draws from its own generator seeded from the app id alone, so
// the sequence for a game is identical across runs and engines and cannot
// be perturbed by the iteration order of other games. Games without a
// positive price are skipped.
func SimulatePriceHistory(games []models.RawGame, referenceDate time.Time) []models.PriceHistoryPoint {
	ref := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 0, 0, 0, 0, time.UTC)

	var points []models.PriceHistoryPoint
	for _, g := range games {
		if g.Price == nil || *g.Price <= 0 {
			continue
		}
		base := *g.Price
		discount := 0
		if g.Discount != nil {
			discount = *g.Discount
		}

		rng := rand.New(rand.NewSource(priceSeed(g.AppID)))
		for month := 0; month < 12; month++ {
			point := models.PriceHistoryPoint{
				GameAppID:  g.AppID,
				RecordedAt: monthBefore(ref, month),
			}
			if month == 0 {
				point.Price = base
				point.DiscountPercent = discount
			} else {
				// Draw order is fixed: variation first, then the sale
				// roll, then the step pick. Changing it changes every
				// historical sequence.
				variation := 0.9 + 0.2*rng.Float64()
				point.Price = math.Round(base*variation*100) / 100
				if rng.Float64() < discountChance {
					point.DiscountPercent = discountSteps[rng.Intn(len(discountSteps))]
				}
			}
			points = append(points, point)
		}
	}
	return points
}

// monthBefore returns ref shifted back by the given number of whole
// calendar months. Month arithmetic is anchored to the first of the target
// month and the day is clamped to that month's length, so a day-31
// reference never normalizes into a neighboring month and every trailing
// month gets exactly one point.
func monthBefore(ref time.Time, months int) time.Time {
	first := time.Date(ref.Year(), ref.Month()-time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := ref.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// priceSeed derives the per-game generator seed from the app id using a
// splitmix64 scramble, so adjacent app ids do not produce correlated
// streams.
func priceSeed(appID int) int64 {
	z := uint64(appID) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
