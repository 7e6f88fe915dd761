package models

import "time"

// UserProfile is a per-author rollup over the reviews table. Reviews with
// a nil author id never contribute to a profile.
type UserProfile struct {
	AuthorSteamID        int64     `gorm:"column:author_steamid;primaryKey" json:"author_steamid" bson:"author_steamid"`
	NumGamesOwned        int       `gorm:"column:num_games_owned" json:"num_games_owned" bson:"num_games_owned"`
	NumReviews           int       `gorm:"column:num_reviews" json:"num_reviews" bson:"num_reviews"`
	TotalPlaytimeMinutes float64   `gorm:"column:total_playtime_minutes" json:"total_playtime_minutes" bson:"total_playtime_minutes"`
	FirstReviewDate      time.Time `gorm:"column:first_review_date" json:"first_review_date" bson:"first_review_date"`
	LastReviewDate       time.Time `gorm:"column:last_review_date" json:"last_review_date" bson:"last_review_date"`
	PositiveReviewCount  int       `gorm:"column:positive_review_count" json:"positive_review_count" bson:"positive_review_count"`
	NegativeReviewCount  int       `gorm:"column:negative_review_count" json:"negative_review_count" bson:"negative_review_count"`
	AvgReviewLength      float64   `gorm:"column:avg_review_length" json:"avg_review_length" bson:"avg_review_length"`
	HelpfulVotesReceived int64     `gorm:"column:helpful_votes_received" json:"helpful_votes_received" bson:"helpful_votes_received"`
}

// TableName overrides the table name for user profiles.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// GameReviewSummary is a per-game rollup over the reviews table.
// SteamPurchaseRatio is always numeric: 0 when the game has no reviews.
type GameReviewSummary struct {
	GameAppID              int     `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	TotalReviews           int     `gorm:"column:total_reviews" json:"total_reviews" bson:"total_reviews"`
	PositiveReviews        int     `gorm:"column:positive_reviews" json:"positive_reviews" bson:"positive_reviews"`
	NegativeReviews        int     `gorm:"column:negative_reviews" json:"negative_reviews" bson:"negative_reviews"`
	AvgPlaytimeAtReview    float64 `gorm:"column:avg_playtime_at_review" json:"avg_playtime_at_review" bson:"avg_playtime_at_review"`
	MedianPlaytimeAtReview float64 `gorm:"column:median_playtime_at_review" json:"median_playtime_at_review" bson:"median_playtime_at_review"`
	AvgHelpfulVotes        float64 `gorm:"column:avg_helpful_votes" json:"avg_helpful_votes" bson:"avg_helpful_votes"`
	MostCommonLanguage     string  `gorm:"column:most_common_language;size:50" json:"most_common_language" bson:"most_common_language"`
	SteamPurchaseRatio     float64 `gorm:"column:steam_purchase_ratio" json:"steam_purchase_ratio" bson:"steam_purchase_ratio"`
	EarlyAccessReviewCount int     `gorm:"column:early_access_review_count" json:"early_access_review_count" bson:"early_access_review_count"`
}

// TableName overrides the table name for game review summaries.
func (GameReviewSummary) TableName() string {
	return "game_review_summary"
}

// DeveloperStats is a per-developer rollup over the games a developer is
// associated with. Averages over optional columns ignore missing values in
// the denominator; a nil average means no game supplied the input at all.
type DeveloperStats struct {
	DeveloperID          int      `gorm:"column:developer_id;primaryKey" json:"developer_id" bson:"developer_id"`
	TotalGames           int      `gorm:"column:total_games" json:"total_games" bson:"total_games"`
	AvgGamePrice         *float64 `gorm:"column:avg_game_price" json:"avg_game_price" bson:"avg_game_price"`
	AvgMetacriticScore   *float64 `gorm:"column:avg_metacritic_score" json:"avg_metacritic_score" bson:"avg_metacritic_score"`
	TotalPositiveReviews int      `gorm:"column:total_positive_reviews" json:"total_positive_reviews" bson:"total_positive_reviews"`
	TotalNegativeReviews int      `gorm:"column:total_negative_reviews" json:"total_negative_reviews" bson:"total_negative_reviews"`
	AvgPlaytime          *float64 `gorm:"column:avg_playtime" json:"avg_playtime" bson:"avg_playtime"`
	MostCommonGenre      string   `gorm:"column:most_common_genre;size:100" json:"most_common_genre" bson:"most_common_genre"`
}

// TableName overrides the table name for developer statistics.
func (DeveloperStats) TableName() string {
	return "developer_stats"
}

// PriceHistoryPoint is one simulated monthly price observation.
type PriceHistoryPoint struct {
	GameAppID       int       `gorm:"column:game_appid;primaryKey;index" json:"game_appid" bson:"game_appid"`
	RecordedAt      time.Time `gorm:"column:recorded_date;primaryKey;index" json:"recorded_date" bson:"recorded_date"`
	Price           float64   `gorm:"column:price" json:"price" bson:"price"`
	DiscountPercent int       `gorm:"column:discount_percent" json:"discount_percent" bson:"discount_percent"`
}

// TableName overrides the table name for price history.
func (PriceHistoryPoint) TableName() string {
	return "game_price_history"
}
