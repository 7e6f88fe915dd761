package normalize

import (
	"sort"
	"time"
	"unicode/utf8"

	"game-warehouse/feature/catalog/models"
)

// Aggregate fills the three derived tables from the normalized snapshot.
// It is a pure function of the snapshot: no clocks, no map iteration
// order, and a fixed summation order (ascending primary key) so repeated
// runs produce bit-identical floats.
func Aggregate(snap *Snapshot) {
	snap.UserProfiles = buildUserProfiles(snap.Reviews)
	snap.ReviewSummaries = buildReviewSummaries(snap.Games, snap.Reviews)
	snap.DeveloperStats = buildDeveloperStats(snap)
}

// buildUserProfiles groups reviews by author. The reviews slice is already
// in the canonical order (author asc, review id asc), so one sequential
// pass accumulates each profile; authorless reviews are skipped.
func buildUserProfiles(reviews []models.RawReview) []models.UserProfile {
	var profiles []models.UserProfile
	var cur *models.UserProfile

	for i := range reviews {
		r := &reviews[i]
		if r.AuthorSteamID == nil {
			continue
		}
		id := *r.AuthorSteamID
		if cur == nil || cur.AuthorSteamID != id {
			profiles = append(profiles, models.UserProfile{
				AuthorSteamID: id,
				// Lifetime stats repeat on every review row; the first
				// row in canonical order supplies them.
				NumGamesOwned:        r.AuthorNumGamesOwned,
				NumReviews:           r.AuthorNumReviews,
				TotalPlaytimeMinutes: r.AuthorPlaytimeForever,
				FirstReviewDate:      unixDate(r.TimestampCreated),
				LastReviewDate:       unixDate(r.TimestampCreated),
			})
			cur = &profiles[len(profiles)-1]
		}

		created := unixDate(r.TimestampCreated)
		if created.Before(cur.FirstReviewDate) {
			cur.FirstReviewDate = created
		}
		if created.After(cur.LastReviewDate) {
			cur.LastReviewDate = created
		}
		if r.Recommended {
			cur.PositiveReviewCount++
		} else {
			cur.NegativeReviewCount++
		}
		cur.HelpfulVotesReceived += r.VotesHelpful
		// AvgReviewLength holds the running sum until the loop below
		// divides it by the review count.
		cur.AvgReviewLength += float64(utf8.RuneCountInString(r.Review))
	}

	for i := range profiles {
		p := &profiles[i]
		total := p.PositiveReviewCount + p.NegativeReviewCount
		p.AvgReviewLength /= float64(total)
	}
	return profiles
}

// buildReviewSummaries emits one summary per game in the union of the
// games table and the review rows. A game with zero reviews gets an
// all-zero row; in particular the purchase ratio is 0, never undefined.
func buildReviewSummaries(games []models.RawGame, reviews []models.RawReview) []models.GameReviewSummary {
	grouped := make(map[int][]*models.RawReview)
	appIDs := make(map[int]struct{}, len(games))
	for _, g := range games {
		appIDs[g.AppID] = struct{}{}
	}
	for i := range reviews {
		r := &reviews[i]
		grouped[r.AppID] = append(grouped[r.AppID], r)
		appIDs[r.AppID] = struct{}{}
	}

	ordered := make([]int, 0, len(appIDs))
	for id := range appIDs {
		ordered = append(ordered, id)
	}
	sort.Ints(ordered)

	summaries := make([]models.GameReviewSummary, 0, len(ordered))
	for _, appID := range ordered {
		group := grouped[appID]
		s := models.GameReviewSummary{GameAppID: appID, TotalReviews: len(group)}

		var playtimes []float64
		var purchases, helpfulSum int64
		langCount := make(map[string]int)
		langFirst := make(map[string]int)

		for i, r := range group {
			if r.Recommended {
				s.PositiveReviews++
			} else {
				s.NegativeReviews++
			}
			if r.AuthorPlaytimeAtReview != nil {
				playtimes = append(playtimes, *r.AuthorPlaytimeAtReview)
			}
			helpfulSum += r.VotesHelpful
			if r.SteamPurchase {
				purchases++
			}
			if r.EarlyAccess {
				s.EarlyAccessReviewCount++
			}
			if r.Language != "" {
				langCount[r.Language]++
				if _, seen := langFirst[r.Language]; !seen {
					langFirst[r.Language] = i
				}
			}
		}

		if len(playtimes) > 0 {
			var sum float64
			for _, v := range playtimes {
				sum += v
			}
			s.AvgPlaytimeAtReview = sum / float64(len(playtimes))
			s.MedianPlaytimeAtReview = median(playtimes)
		}
		if len(group) > 0 {
			s.AvgHelpfulVotes = float64(helpfulSum) / float64(len(group))
			s.SteamPurchaseRatio = float64(purchases) / float64(len(group))
		}
		s.MostCommonLanguage = modalKey(langCount, langFirst)

		summaries = append(summaries, s)
	}
	return summaries
}

// buildDeveloperStats rolls games up per developer via the association
// table. Averages over optional columns ignore missing values in the
// denominator instead of treating them as zero.
func buildDeveloperStats(snap *Snapshot) []models.DeveloperStats {
	gamesByID := make(map[int]*models.RawGame, len(snap.Games))
	for i := range snap.Games {
		gamesByID[snap.Games[i].AppID] = &snap.Games[i]
	}
	genreNames := make(map[int]string, len(snap.Genres))
	for _, g := range snap.Genres {
		genreNames[g.ID] = g.Name
	}
	genresByGame := make(map[int][]int)
	for _, gg := range snap.GameGenres {
		genresByGame[gg.GameAppID] = append(genresByGame[gg.GameAppID], gg.GenreID)
	}
	gamesByDev := make(map[int][]int)
	for _, gd := range snap.GameDevelopers {
		gamesByDev[gd.DeveloperID] = append(gamesByDev[gd.DeveloperID], gd.GameAppID)
	}

	stats := make([]models.DeveloperStats, 0, len(snap.Developers))
	for _, dev := range snap.Developers {
		appIDs := gamesByDev[dev.ID]
		sort.Ints(appIDs)

		s := models.DeveloperStats{DeveloperID: dev.ID, TotalGames: len(appIDs)}

		var priceSum, playtimeSum float64
		var priceN, playtimeN int
		var scoreSum, scoreN int
		genreCount := make(map[string]int)
		genreFirst := make(map[string]int)
		pos := 0

		for _, appID := range appIDs {
			g := gamesByID[appID]
			if g == nil {
				continue
			}
			if g.Price != nil {
				priceSum += *g.Price
				priceN++
			}
			if g.MetacriticScore != nil {
				scoreSum += *g.MetacriticScore
				scoreN++
			}
			if g.AveragePlaytimeForever != nil {
				playtimeSum += float64(*g.AveragePlaytimeForever)
				playtimeN++
			}
			s.TotalPositiveReviews += g.Positive
			s.TotalNegativeReviews += g.Negative
			for _, genreID := range genresByGame[appID] {
				name := genreNames[genreID]
				genreCount[name]++
				if _, seen := genreFirst[name]; !seen {
					genreFirst[name] = pos
				}
				pos++
			}
		}

		if priceN > 0 {
			avg := priceSum / float64(priceN)
			s.AvgGamePrice = &avg
		}
		if scoreN > 0 {
			avg := float64(scoreSum) / float64(scoreN)
			s.AvgMetacriticScore = &avg
		}
		if playtimeN > 0 {
			avg := playtimeSum / float64(playtimeN)
			s.AvgPlaytime = &avg
		}
		s.MostCommonGenre = modalKey(genreCount, genreFirst)

		stats = append(stats, s)
	}
	return stats
}

// median computes the exact sort-and-midpoint median; even-sized inputs
// average the two middle values.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// modalKey returns the most frequent key; ties break toward the key seen
// earliest in input order so the result is reproducible.
func modalKey(count map[string]int, first map[string]int) string {
	best := ""
	for key, n := range count {
		if best == "" {
			best = key
			continue
		}
		if n > count[best] || (n == count[best] && first[key] < first[best]) {
			best = key
		}
	}
	return best
}

func unixDate(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
