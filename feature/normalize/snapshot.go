package normalize

import (
	"errors"
	"fmt"
	"time"

	"game-warehouse/feature/catalog/models"
)

// ErrConfigConflict is returned before any computation starts when the
// option set asks for output that depends on a skipped dataset.
var ErrConfigConflict = errors.New("conflicting pipeline configuration")

// Options holds every knob that affects the engine's output. All fields
// participate in the cache fingerprint.
type Options struct {
	// ReviewLimit caps the review rows entering normalization. The cap is
	// deterministic: rows are ordered by (author id, review id) ascending
	// and the first N are kept. Zero means no limit.
	ReviewLimit int `json:"review_limit"`

	// SkipGames, SkipReviews and SkipCompletions omit the corresponding
	// dataset (and everything derived from it) from the snapshot.
	SkipGames       bool `json:"skip_games"`
	SkipReviews     bool `json:"skip_reviews"`
	SkipCompletions bool `json:"skip_completions"`

	// ReferenceDate anchors the simulated price history: twelve trailing
	// calendar months ending at this date.
	ReferenceDate time.Time `json:"reference_date"`
}

// Validate rejects option sets whose derived tables would require a
// skipped dataset. This is fatal by design: emitting partial aggregates
// would silently break the engine's purity contract.
func (o Options) Validate() error {
	if o.ReviewLimit < 0 {
		return fmt.Errorf("%w: review limit must not be negative", ErrConfigConflict)
	}
	if o.SkipGames && !o.SkipCompletions {
		return fmt.Errorf("%w: completion records are joined against games, skip both or neither", ErrConfigConflict)
	}
	if o.SkipGames && !o.SkipReviews {
		return fmt.Errorf("%w: review summaries reference the games table, skip both or neither", ErrConfigConflict)
	}
	if o.ReferenceDate.IsZero() && !o.SkipGames {
		return fmt.Errorf("%w: a reference date is required to simulate price history", ErrConfigConflict)
	}
	return nil
}

// Report carries per-run data-quality counters. None of these are errors:
// the offending rows are either dropped (duplicates) or retained
// (orphans, ambiguous matches, authorless reviews) and the caller decides
// what to do with the counts.
type Report struct {
	DuplicateGames       int `json:"duplicate_games"`
	DuplicateReviews     int `json:"duplicate_reviews"`
	DuplicateCompletions int `json:"duplicate_completions"`

	// OrphanCompletions counts completion records that matched no game;
	// AmbiguousCompletions counts those that matched more than one.
	OrphanCompletions    int `json:"orphan_completions"`
	AmbiguousCompletions int `json:"ambiguous_completions"`

	// AuthorlessReviews counts retained reviews excluded from user
	// aggregation because the author id was missing.
	AuthorlessReviews int `json:"authorless_reviews"`
}

// Snapshot is the complete output of one engine run: passthrough raw
// tables, dimension and association tables, pre-computed aggregates and
// the simulated price series. Every slice is sorted by its primary key.
// A snapshot is immutable once built and safe for concurrent readers.
type Snapshot struct {
	Fingerprint string  `json:"fingerprint"`
	Options     Options `json:"options"`
	Report      Report  `json:"report"`

	Games       []models.RawGame          `json:"games"`
	Reviews     []models.RawReview        `json:"reviews"`
	Completions []models.CompletionRecord `json:"completions"`

	Developers []models.Developer `json:"developers"`
	Publishers []models.Publisher `json:"publishers"`
	Genres     []models.Genre     `json:"genres"`
	Categories []models.Category  `json:"categories"`
	Tags       []models.Tag       `json:"tags"`

	GameDevelopers []models.GameDeveloper `json:"game_developers"`
	GamePublishers []models.GamePublisher `json:"game_publishers"`
	GameGenres     []models.GameGenre     `json:"game_genres"`
	GameCategories []models.GameCategory  `json:"game_categories"`
	GameTags       []models.GameTag       `json:"game_tags"`

	UserProfiles    []models.UserProfile       `json:"user_profiles"`
	ReviewSummaries []models.GameReviewSummary `json:"review_summaries"`
	DeveloperStats  []models.DeveloperStats    `json:"developer_stats"`

	PriceHistory []models.PriceHistoryPoint `json:"price_history"`
}

// TableCounts returns row counts per exposed table, keyed by the physical
// table name the importers use. Handy for logging and the report API.
func (s *Snapshot) TableCounts() map[string]int {
	return map[string]int{
		models.RawGame{}.TableName():		len(s.Games),
		models.RawReview{}.TableName():		len(s.Reviews),
		models.CompletionRecord{}.TableName():	len(s.Completions),
		models.Developer{}.TableName():		len(s.Developers),
		models.Publisher{}.TableName():		len(s.Publishers),
		models.Genre{}.TableName():		len(s.Genres),
		models.Category{}.TableName():		len(s.Categories),
		models.Tag{}.TableName():		len(s.Tags),
		models.GameDeveloper{}.TableName():	len(s.GameDevelopers),
		models.GamePublisher{}.TableName():	len(s.GamePublishers),
		models.GameGenre{}.TableName():		len(s.GameGenres),
		models.GameCategory{}.TableName():	len(s.GameCategories),
		models.GameTag{}.TableName():		len(s.GameTags),
		models.UserProfile{}.TableName():	len(s.UserProfiles),
		models.GameReviewSummary{}.TableName():	len(s.ReviewSummaries),
		models.DeveloperStats{}.TableName():	len(s.DeveloperStats),
		models.PriceHistoryPoint{}.TableName():	len(s.PriceHistory),
	}
}
