package importer

import (
	"context"
	"fmt"
	"time"

	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres imports snapshots through pgx CopyFrom, which is the fastest
// bulk-load path the wire protocol offers.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates a PostgreSQL importer on top of an open pool.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

// Engine implements Importer.
func (p *Postgres) Engine() string {
	return "postgres"
}

var postgresSchema = map[string]string{
	"developers": `CREATE TABLE IF NOT EXISTS developers (
		developer_id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		game_count INT NOT NULL)`,
	"publishers": `CREATE TABLE IF NOT EXISTS publishers (
		publisher_id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		game_count INT NOT NULL)`,
	"genres": `CREATE TABLE IF NOT EXISTS genres (
		genre_id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		game_count INT NOT NULL)`,
	"categories": `CREATE TABLE IF NOT EXISTS categories (
		category_id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		game_count INT NOT NULL)`,
	"tags": `CREATE TABLE IF NOT EXISTS tags (
		tag_id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		total_votes INT NOT NULL)`,
	"games": `CREATE TABLE IF NOT EXISTS games (
		appid INT PRIMARY KEY,
		name TEXT NOT NULL,
		release_date DATE,
		required_age INT,
		price DOUBLE PRECISION,
		dlc_count INT,
		windows BOOLEAN,
		mac BOOLEAN,
		linux BOOLEAN,
		metacritic_score INT,
		achievements INT,
		recommendations INT,
		user_score INT,
		positive INT,
		negative INT,
		estimated_owners TEXT,
		average_playtime_forever INT,
		average_playtime_2weeks INT,
		median_playtime_forever INT,
		median_playtime_2weeks INT,
		discount INT,
		peak_ccu INT,
		pct_pos_total INT,
		num_reviews_total INT,
		pct_pos_recent INT,
		num_reviews_recent INT,
		supported_languages JSONB,
		full_audio_languages JSONB,
		developers JSONB,
		publishers JSONB,
		categories JSONB,
		genres JSONB,
		tags JSONB)`,
	"game_developers": `CREATE TABLE IF NOT EXISTS game_developers (
		game_appid INT NOT NULL REFERENCES games(appid),
		developer_id INT NOT NULL REFERENCES developers(developer_id),
		PRIMARY KEY (game_appid, developer_id))`,
	"game_publishers": `CREATE TABLE IF NOT EXISTS game_publishers (
		game_appid INT NOT NULL REFERENCES games(appid),
		publisher_id INT NOT NULL REFERENCES publishers(publisher_id),
		PRIMARY KEY (game_appid, publisher_id))`,
	"game_genres": `CREATE TABLE IF NOT EXISTS game_genres (
		game_appid INT NOT NULL REFERENCES games(appid),
		genre_id INT NOT NULL REFERENCES genres(genre_id),
		PRIMARY KEY (game_appid, genre_id))`,
	"game_categories": `CREATE TABLE IF NOT EXISTS game_categories (
		game_appid INT NOT NULL REFERENCES games(appid),
		category_id INT NOT NULL REFERENCES categories(category_id),
		PRIMARY KEY (game_appid, category_id))`,
	"game_tags": `CREATE TABLE IF NOT EXISTS game_tags (
		game_appid INT NOT NULL REFERENCES games(appid),
		tag_id INT NOT NULL REFERENCES tags(tag_id),
		vote_count INT NOT NULL,
		PRIMARY KEY (game_appid, tag_id))`,
	"reviews": `CREATE TABLE IF NOT EXISTS reviews (
		review_id BIGINT PRIMARY KEY,
		app_id INT NOT NULL,
		app_name TEXT,
		language TEXT,
		review TEXT,
		timestamp_created BIGINT,
		timestamp_updated BIGINT,
		recommended BOOLEAN,
		votes_helpful BIGINT,
		votes_funny BIGINT,
		weighted_vote_score DOUBLE PRECISION,
		comment_count INT,
		steam_purchase BOOLEAN,
		received_for_free BOOLEAN,
		written_during_early_access BOOLEAN,
		author_steamid BIGINT,
		author_num_games_owned INT,
		author_num_reviews INT,
		author_playtime_forever DOUBLE PRECISION,
		author_playtime_last_two_weeks DOUBLE PRECISION,
		author_playtime_at_review DOUBLE PRECISION,
		author_last_played DOUBLE PRECISION)`,
	"hltb": `CREATE TABLE IF NOT EXISTS hltb (
		id INT NOT NULL,
		matched_appid INT,
		game_name TEXT NOT NULL,
		main_story_minutes INT,
		main_extra_minutes INT,
		completionist_minutes INT,
		submission_count INT)`,
	"user_profiles": `CREATE TABLE IF NOT EXISTS user_profiles (
		author_steamid BIGINT PRIMARY KEY,
		num_games_owned INT,
		num_reviews INT,
		total_playtime_minutes DOUBLE PRECISION,
		first_review_date TIMESTAMPTZ,
		last_review_date TIMESTAMPTZ,
		positive_review_count INT,
		negative_review_count INT,
		avg_review_length DOUBLE PRECISION,
		helpful_votes_received BIGINT)`,
	"game_review_summary": `CREATE TABLE IF NOT EXISTS game_review_summary (
		game_appid INT PRIMARY KEY,
		total_reviews INT,
		positive_reviews INT,
		negative_reviews INT,
		avg_playtime_at_review DOUBLE PRECISION,
		median_playtime_at_review DOUBLE PRECISION,
		avg_helpful_votes DOUBLE PRECISION,
		most_common_language TEXT,
		steam_purchase_ratio DOUBLE PRECISION,
		early_access_review_count INT)`,
	"developer_stats": `CREATE TABLE IF NOT EXISTS developer_stats (
		developer_id INT PRIMARY KEY,
		total_games INT,
		avg_game_price DOUBLE PRECISION,
		avg_metacritic_score DOUBLE PRECISION,
		total_positive_reviews INT,
		total_negative_reviews INT,
		avg_playtime DOUBLE PRECISION,
		most_common_genre TEXT)`,
	"game_price_history": `CREATE TABLE IF NOT EXISTS game_price_history (
		game_appid INT NOT NULL,
		recorded_date DATE NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		discount_percent INT NOT NULL,
		PRIMARY KEY (game_appid, recorded_date))`,
}

// Reset drops and recreates every snapshot table.
func (p *Postgres) Reset(ctx context.Context) error {
	for i := len(tableOrder) - 1; i >= 0; i-- {
		stmt := "DROP TABLE IF EXISTS " + tableOrder[i] + " CASCADE"
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop %s: %w", tableOrder[i], err)
		}
	}
	for _, table := range tableOrder {
		if _, err := p.pool.Exec(ctx, postgresSchema[table]); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}
	}
	return nil
}

// Import implements Importer.
func (p *Postgres) Import(ctx context.Context, snap *normalize.Snapshot) (*Result, error) {
	res := newResult(p.Engine())
	p.logger.Info("starting postgres import", zap.String("run_id", res.RunID))

	start := time.Now()
	if err := p.Reset(ctx); err != nil {
		return nil, fmt.Errorf("postgres reset: %w", err)
	}
	res.ResetDuration = time.Since(start)

	start = time.Now()
	if err := p.copyAll(ctx, snap, res); err != nil {
		return nil, err
	}
	res.ImportDuration = time.Since(start)

	start = time.Now()
	if err := p.verifyCounts(ctx, snap); err != nil {
		return nil, err
	}
	res.VerifyDuration = time.Since(start)

	res.Log(p.logger)
	return res, nil
}

func (p *Postgres) copyAll(ctx context.Context, snap *normalize.Snapshot, res *Result) error {
	dims := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{"developers", []string{"developer_id", "name", "game_count"}, copyRows(snap.Developers, func(d models.Developer) []any {
			return []any{d.ID, d.Name, d.GameCount}
		})},
		{"publishers", []string{"publisher_id", "name", "game_count"}, copyRows(snap.Publishers, func(d models.Publisher) []any {
			return []any{d.ID, d.Name, d.GameCount}
		})},
		{"genres", []string{"genre_id", "name", "game_count"}, copyRows(snap.Genres, func(d models.Genre) []any {
			return []any{d.ID, d.Name, d.GameCount}
		})},
		{"categories", []string{"category_id", "name", "game_count"}, copyRows(snap.Categories, func(d models.Category) []any {
			return []any{d.ID, d.Name, d.GameCount}
		})},
		{"tags", []string{"tag_id", "name", "total_votes"}, copyRows(snap.Tags, func(d models.Tag) []any {
			return []any{d.ID, d.Name, d.TotalVotes}
		})},
		{"games", gameColumns, copyRows(snap.Games, gameRow)},
		{"game_developers", []string{"game_appid", "developer_id"}, copyRows(snap.GameDevelopers, func(a models.GameDeveloper) []any {
			return []any{a.GameAppID, a.DeveloperID}
		})},
		{"game_publishers", []string{"game_appid", "publisher_id"}, copyRows(snap.GamePublishers, func(a models.GamePublisher) []any {
			return []any{a.GameAppID, a.PublisherID}
		})},
		{"game_genres", []string{"game_appid", "genre_id"}, copyRows(snap.GameGenres, func(a models.GameGenre) []any {
			return []any{a.GameAppID, a.GenreID}
		})},
		{"game_categories", []string{"game_appid", "category_id"}, copyRows(snap.GameCategories, func(a models.GameCategory) []any {
			return []any{a.GameAppID, a.CategoryID}
		})},
		{"game_tags", []string{"game_appid", "tag_id", "vote_count"}, copyRows(snap.GameTags, func(a models.GameTag) []any {
			return []any{a.GameAppID, a.TagID, a.VoteCount}
		})},
		{"reviews", reviewColumns, copyRows(snap.Reviews, reviewRow)},
		{"hltb", []string{"id", "matched_appid", "game_name", "main_story_minutes", "main_extra_minutes", "completionist_minutes", "submission_count"}, copyRows(snap.Completions, func(c models.CompletionRecord) []any {
			return []any{c.ID, c.MatchedAppID, c.GameName, c.MainStoryMinutes, c.MainExtraMinutes, c.CompletionistMinutes, c.SubmissionCount}
		})},
		{"user_profiles", []string{"author_steamid", "num_games_owned", "num_reviews", "total_playtime_minutes", "first_review_date", "last_review_date", "positive_review_count", "negative_review_count", "avg_review_length", "helpful_votes_received"}, copyRows(snap.UserProfiles, func(u models.UserProfile) []any {
			return []any{u.AuthorSteamID, u.NumGamesOwned, u.NumReviews, u.TotalPlaytimeMinutes, u.FirstReviewDate, u.LastReviewDate, u.PositiveReviewCount, u.NegativeReviewCount, u.AvgReviewLength, u.HelpfulVotesReceived}
		})},
		{"game_review_summary", []string{"game_appid", "total_reviews", "positive_reviews", "negative_reviews", "avg_playtime_at_review", "median_playtime_at_review", "avg_helpful_votes", "most_common_language", "steam_purchase_ratio", "early_access_review_count"}, copyRows(snap.ReviewSummaries, func(s models.GameReviewSummary) []any {
			return []any{s.GameAppID, s.TotalReviews, s.PositiveReviews, s.NegativeReviews, s.AvgPlaytimeAtReview, s.MedianPlaytimeAtReview, s.AvgHelpfulVotes, s.MostCommonLanguage, s.SteamPurchaseRatio, s.EarlyAccessReviewCount}
		})},
		{"developer_stats", []string{"developer_id", "total_games", "avg_game_price", "avg_metacritic_score", "total_positive_reviews", "total_negative_reviews", "avg_playtime", "most_common_genre"}, copyRows(snap.DeveloperStats, func(d models.DeveloperStats) []any {
			return []any{d.DeveloperID, d.TotalGames, d.AvgGamePrice, d.AvgMetacriticScore, d.TotalPositiveReviews, d.TotalNegativeReviews, d.AvgPlaytime, d.MostCommonGenre}
		})},
		{"game_price_history", []string{"game_appid", "recorded_date", "price", "discount_percent"}, copyRows(snap.PriceHistory, func(pt models.PriceHistoryPoint) []any {
			return []any{pt.GameAppID, pt.RecordedAt, pt.Price, pt.DiscountPercent}
		})},
	}

	for _, t := range dims {
		n, err := p.pool.CopyFrom(ctx, pgx.Identifier{t.table}, t.cols, pgx.CopyFromRows(t.rows))
		if err != nil {
			return fmt.Errorf("failed to copy into %s: %w", t.table, err)
		}
		res.Rows[t.table] = int(n)
	}
	return nil
}

var gameColumns = []string{
	"appid", "name", "release_date", "required_age", "price", "dlc_count",
	"windows", "mac", "linux", "metacritic_score", "achievements",
	"recommendations", "user_score", "positive", "negative",
	"estimated_owners", "average_playtime_forever", "average_playtime_2weeks",
	"median_playtime_forever", "median_playtime_2weeks", "discount",
	"peak_ccu", "pct_pos_total", "num_reviews_total", "pct_pos_recent",
	"num_reviews_recent", "supported_languages", "full_audio_languages",
	"developers", "publishers", "categories", "genres", "tags",
}

func gameRow(g models.RawGame) []any {
	return []any{
		g.AppID, g.Name, g.ReleaseDate, g.RequiredAge, g.Price, g.DLCCount,
		g.Windows, g.Mac, g.Linux, g.MetacriticScore, g.Achievements,
		g.Recommendations, g.UserScore, g.Positive, g.Negative,
		g.EstimatedOwners, g.AveragePlaytimeForever, g.AveragePlaytimeTwoWeeks,
		g.MedianPlaytimeForever, g.MedianPlaytimeTwoWeeks, g.Discount,
		g.PeakCCU, g.PctPositiveTotal, g.NumReviewsTotal, g.PctPositiveRecent,
		g.NumReviewsRecent, g.SupportedLanguages, g.FullAudioLanguages,
		g.Developers, g.Publishers, g.Categories, g.Genres, g.Tags,
	}
}

var reviewColumns = []string{
	"review_id", "app_id", "app_name", "language", "review",
	"timestamp_created", "timestamp_updated", "recommended", "votes_helpful",
	"votes_funny", "weighted_vote_score", "comment_count", "steam_purchase",
	"received_for_free", "written_during_early_access", "author_steamid",
	"author_num_games_owned", "author_num_reviews", "author_playtime_forever",
	"author_playtime_last_two_weeks", "author_playtime_at_review",
	"author_last_played",
}

func reviewRow(r models.RawReview) []any {
	return []any{
		r.ReviewID, r.AppID, r.AppName, r.Language, r.Review,
		r.TimestampCreated, r.TimestampUpdated, r.Recommended, r.VotesHelpful,
		r.VotesFunny, r.WeightedVoteScore, r.CommentCount, r.SteamPurchase,
		r.ReceivedForFree, r.EarlyAccess, r.AuthorSteamID,
		r.AuthorNumGamesOwned, r.AuthorNumReviews, r.AuthorPlaytimeForever,
		r.AuthorPlaytimeLastTwoWeeks, r.AuthorPlaytimeAtReview,
		r.AuthorLastPlayed,
	}
}

func copyRows[T any](rows []T, mapRow func(T) []any) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = mapRow(r)
	}
	return out
}

func (p *Postgres) verifyCounts(ctx context.Context, snap *normalize.Snapshot) error {
	want := snap.TableCounts()
	for _, table := range tableOrder {
		var got int64
		if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		if int(got) != want[table] {
			return fmt.Errorf("row count mismatch on %s: imported %d, snapshot has %d", table, got, want[table])
		}
	}
	return nil
}

// FirstDevelopers returns the first n developer rows ordered by ID.
func (p *Postgres) FirstDevelopers(ctx context.Context, n int) ([]models.Developer, error) {
	rows, err := p.pool.Query(ctx, "SELECT developer_id, name, game_count FROM developers ORDER BY developer_id LIMIT $1", n)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch developers: %w", err)
	}
	defer rows.Close()

	var devs []models.Developer
	for rows.Next() {
		var d models.Developer
		if err := rows.Scan(&d.ID, &d.Name, &d.GameCount); err != nil {
			return nil, fmt.Errorf("failed to scan developer: %w", err)
		}
		devs = append(devs, d)
	}
	return devs, rows.Err()
}
