package normalize

import (
	"sort"
	"strings"

	"game-warehouse/feature/catalog/models"
)

// Build runs the full pipeline: normalization, aggregation and price
// simulation. It is the build function handed to Store.LoadOrBuild.
func Build(games []models.RawGame, reviews []models.RawReview, completions []models.RawCompletionRecord, opts Options) (*Snapshot, error) {
	snap, err := Normalize(games, reviews, completions, opts)
	if err != nil {
		return nil, err
	}
	Aggregate(snap)
	snap.PriceHistory = SimulatePriceHistory(snap.Games, opts.ReferenceDate)
	return snap, nil
}

// Normalize extracts dimension and association tables from the embedded
// fields of the raw games, joins completion records against games by
// name, and returns a snapshot holding the passthrough raw tables plus
// the normalized ones. Every pass is total and order-independent in its
// output; shuffling the input rows yields an identical snapshot.
func Normalize(games []models.RawGame, reviews []models.RawReview, completions []models.RawCompletionRecord, opts Options) (*Snapshot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Options: opts}

	if opts.SkipGames {
		games = nil
	}
	if opts.SkipReviews {
		reviews = nil
	}
	if opts.SkipCompletions {
		completions = nil
	}

	snap.Games, snap.Report.DuplicateGames = dedupeGames(games)
	sort.Slice(snap.Games, func(i, j int) bool { return snap.Games[i].AppID < snap.Games[j].AppID })

	kept, dupReviews := dedupeReviews(reviews)
	snap.Report.DuplicateReviews = dupReviews
	sortReviews(kept)
	if opts.ReviewLimit > 0 && len(kept) > opts.ReviewLimit {
		kept = kept[:opts.ReviewLimit]
	}
	snap.Reviews = kept
	for _, r := range snap.Reviews {
		if r.AuthorSteamID == nil {
			snap.Report.AuthorlessReviews++
		}
	}

	rawCompletions, dupCompletions := dedupeCompletions(completions)
	snap.Report.DuplicateCompletions = dupCompletions

	extractDimensions(snap)
	joinCompletions(snap, rawCompletions)

	return snap, nil
}

// sortReviews establishes the one stable review ordering used everywhere:
// ascending author id with authorless rows first, then ascending review
// id. The review limit takes the first N of this ordering, and the
// aggregator sums in it, so repeated runs reproduce bit-identical floats.
func sortReviews(reviews []models.RawReview) {
	sort.Slice(reviews, func(i, j int) bool {
		ai, aj := reviews[i].AuthorSteamID, reviews[j].AuthorSteamID
		switch {
		case ai == nil && aj != nil:
			return true
		case ai != nil && aj == nil:
			return false
		case ai != nil && aj != nil && *ai != *aj:
			return *ai < *aj
		}
		return reviews[i].ReviewID < reviews[j].ReviewID
	})
}

func dedupeGames(games []models.RawGame) ([]models.RawGame, int) {
	seen := make(map[int]struct{}, len(games))
	out := make([]models.RawGame, 0, len(games))
	dropped := 0
	for _, g := range games {
		if _, ok := seen[g.AppID]; ok {
			dropped++
			continue
		}
		seen[g.AppID] = struct{}{}
		out = append(out, g)
	}
	return out, dropped
}

func dedupeReviews(reviews []models.RawReview) ([]models.RawReview, int) {
	seen := make(map[int64]struct{}, len(reviews))
	out := make([]models.RawReview, 0, len(reviews))
	dropped := 0
	for _, r := range reviews {
		if _, ok := seen[r.ReviewID]; ok {
			dropped++
			continue
		}
		seen[r.ReviewID] = struct{}{}
		out = append(out, r)
	}
	return out, dropped
}

func dedupeCompletions(records []models.RawCompletionRecord) ([]models.RawCompletionRecord, int) {
	seen := make(map[int]struct{}, len(records))
	out := make([]models.RawCompletionRecord, 0, len(records))
	dropped := 0
	for _, c := range records {
		if _, ok := seen[c.ID]; ok {
			dropped++
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, dropped
}

// extractDimensions builds the five dimension tables and their association
// tables from the embedded fields of the games.
func extractDimensions(snap *Snapshot) {
	devNames := collectListDimension(snap.Games, func(g models.RawGame) []string { return g.Developers })
	pubNames := collectListDimension(snap.Games, func(g models.RawGame) []string { return g.Publishers })
	genreNames := collectListDimension(snap.Games, func(g models.RawGame) []string { return g.Genres })
	catNames := collectListDimension(snap.Games, func(g models.RawGame) []string { return g.Categories })

	devIDs := AllocateIDs(keysOf(devNames.gameCount))
	pubIDs := AllocateIDs(keysOf(pubNames.gameCount))
	genreIDs := AllocateIDs(keysOf(genreNames.gameCount))
	catIDs := AllocateIDs(keysOf(catNames.gameCount))

	for name, id := range devIDs {
		snap.Developers = append(snap.Developers, models.Developer{ID: id, Name: name, GameCount: devNames.gameCount[name]})
	}
	for name, id := range pubIDs {
		snap.Publishers = append(snap.Publishers, models.Publisher{ID: id, Name: name, GameCount: pubNames.gameCount[name]})
	}
	for name, id := range genreIDs {
		snap.Genres = append(snap.Genres, models.Genre{ID: id, Name: name, GameCount: genreNames.gameCount[name]})
	}
	for name, id := range catIDs {
		snap.Categories = append(snap.Categories, models.Category{ID: id, Name: name, GameCount: catNames.gameCount[name]})
	}
	sort.Slice(snap.Developers, func(i, j int) bool { return snap.Developers[i].ID < snap.Developers[j].ID })
	sort.Slice(snap.Publishers, func(i, j int) bool { return snap.Publishers[i].ID < snap.Publishers[j].ID })
	sort.Slice(snap.Genres, func(i, j int) bool { return snap.Genres[i].ID < snap.Genres[j].ID })
	sort.Slice(snap.Categories, func(i, j int) bool { return snap.Categories[i].ID < snap.Categories[j].ID })

	for _, link := range devNames.links {
		snap.GameDevelopers = append(snap.GameDevelopers, models.GameDeveloper{GameAppID: link.appID, DeveloperID: devIDs[link.name]})
	}
	for _, link := range pubNames.links {
		snap.GamePublishers = append(snap.GamePublishers, models.GamePublisher{GameAppID: link.appID, PublisherID: pubIDs[link.name]})
	}
	for _, link := range genreNames.links {
		snap.GameGenres = append(snap.GameGenres, models.GameGenre{GameAppID: link.appID, GenreID: genreIDs[link.name]})
	}
	for _, link := range catNames.links {
		snap.GameCategories = append(snap.GameCategories, models.GameCategory{GameAppID: link.appID, CategoryID: catIDs[link.name]})
	}
	sort.Slice(snap.GameDevelopers, func(i, j int) bool {
		a, b := snap.GameDevelopers[i], snap.GameDevelopers[j]
		return a.GameAppID < b.GameAppID || (a.GameAppID == b.GameAppID && a.DeveloperID < b.DeveloperID)
	})
	sort.Slice(snap.GamePublishers, func(i, j int) bool {
		a, b := snap.GamePublishers[i], snap.GamePublishers[j]
		return a.GameAppID < b.GameAppID || (a.GameAppID == b.GameAppID && a.PublisherID < b.PublisherID)
	})
	sort.Slice(snap.GameGenres, func(i, j int) bool {
		a, b := snap.GameGenres[i], snap.GameGenres[j]
		return a.GameAppID < b.GameAppID || (a.GameAppID == b.GameAppID && a.GenreID < b.GenreID)
	})
	sort.Slice(snap.GameCategories, func(i, j int) bool {
		a, b := snap.GameCategories[i], snap.GameCategories[j]
		return a.GameAppID < b.GameAppID || (a.GameAppID == b.GameAppID && a.CategoryID < b.CategoryID)
	})

	extractTags(snap)
}

type dimensionLink struct {
	appID int
	name  string
}

type listDimension struct {
	// gameCount holds, per canonical name, the number of distinct games
	// referencing it. A name listed twice inside one game counts once.
	gameCount map[string]int
	links     []dimensionLink
}

func collectListDimension(games []models.RawGame, field func(models.RawGame) []string) listDimension {
	dim := listDimension{gameCount: make(map[string]int)}
	for _, g := range games {
		perGame := make(map[string]struct{})
		for _, raw := range field(g) {
			name, ok := CanonicalName(raw)
			if !ok {
				continue
			}
			perGame[name] = struct{}{}
		}
		names := make([]string, 0, len(perGame))
		for name := range perGame {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dim.gameCount[name]++
			dim.links = append(dim.links, dimensionLink{appID: g.AppID, name: name})
		}
	}
	return dim
}

// extractTags mirrors collectListDimension for the tag vote map. Per-game
// vote counts are copied verbatim into the association rows; the dimension
// row sums them. When canonicalization collapses two raw spellings inside
// one game, the larger vote count wins, which keeps the result independent
// of map iteration order.
func extractTags(snap *Snapshot) {
	totals := make(map[string]int)
	for _, g := range snap.Games {
		perGame := make(map[string]int)
		for raw, votes := range g.Tags {
			name, ok := CanonicalName(raw)
			if !ok {
				continue
			}
			if prev, seen := perGame[name]; !seen || votes > prev {
				perGame[name] = votes
			}
		}
		names := make([]string, 0, len(perGame))
		for name := range perGame {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			totals[name] += perGame[name]
		}
	}

	ids := AllocateIDs(keysOf(totals))
	for name, id := range ids {
		snap.Tags = append(snap.Tags, models.Tag{ID: id, Name: name, TotalVotes: totals[name]})
	}
	sort.Slice(snap.Tags, func(i, j int) bool { return snap.Tags[i].ID < snap.Tags[j].ID })

	for _, g := range snap.Games {
		perGame := make(map[string]int)
		for raw, votes := range g.Tags {
			name, ok := CanonicalName(raw)
			if !ok {
				continue
			}
			if prev, seen := perGame[name]; !seen || votes > prev {
				perGame[name] = votes
			}
		}
		for name, votes := range perGame {
			snap.GameTags = append(snap.GameTags, models.GameTag{GameAppID: g.AppID, TagID: ids[name], VoteCount: votes})
		}
	}
	sort.Slice(snap.GameTags, func(i, j int) bool {
		a, b := snap.GameTags[i], snap.GameTags[j]
		return a.GameAppID < b.GameAppID || (a.GameAppID == b.GameAppID && a.TagID < b.TagID)
	})
}

// joinCompletions matches completion records to games by exact
// case-insensitive name. Matching is deliberately loose in the other
// direction: a record matching several games produces one row per match,
// and a record matching none is retained with a nil app id.
func joinCompletions(snap *Snapshot, records []models.RawCompletionRecord) {
	byName := make(map[string][]int)
	for _, g := range snap.Games {
		key := completionKey(g.Name)
		if key == "" {
			continue
		}
		byName[key] = append(byName[key], g.AppID)
	}
	for _, appIDs := range byName {
		sort.Ints(appIDs)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	for _, rec := range records {
		matches := byName[completionKey(rec.GameName)]
		switch len(matches) {
		case 0:
			snap.Report.OrphanCompletions++
			snap.Completions = append(snap.Completions, completionRow(rec, nil))
		case 1:
			appID := matches[0]
			snap.Completions = append(snap.Completions, completionRow(rec, &appID))
		default:
			snap.Report.AmbiguousCompletions++
			for _, m := range matches {
				appID := m
				snap.Completions = append(snap.Completions, completionRow(rec, &appID))
			}
		}
	}
}

func completionRow(rec models.RawCompletionRecord, appID *int) models.CompletionRecord {
	return models.CompletionRecord{
		ID:                   rec.ID,
		MatchedAppID:         appID,
		GameName:             rec.GameName,
		MainStoryMinutes:     rec.MainStoryMinutes,
		MainExtraMinutes:     rec.MainExtraMinutes,
		CompletionistMinutes: rec.CompletionistMinutes,
		SubmissionCount:      rec.SubmissionCount,
	}
}

func completionKey(name string) string {
	canon, ok := CanonicalName(name)
	if !ok {
		return ""
	}
	return strings.ToLower(canon)
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
