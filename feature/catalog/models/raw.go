package models

import "time"

// RawGame is one row of the games dataset after CSV parsing.
// Optional numeric columns are pointers so absence survives the round trip
// through the snapshot cache instead of collapsing to zero.
type RawGame struct {
	AppID       int        `gorm:"column:appid;primaryKey" json:"appid" bson:"appid"`
	Name        string     `gorm:"column:name;size:500" json:"name" bson:"name"`
	ReleaseDate *time.Time `gorm:"column:release_date" json:"release_date" bson:"release_date"`
	RequiredAge int        `gorm:"column:required_age" json:"required_age" bson:"required_age"`
	Price       *float64   `gorm:"column:price" json:"price" bson:"price"`
	DLCCount    int        `gorm:"column:dlc_count" json:"dlc_count" bson:"dlc_count"`

	Windows bool `gorm:"column:windows" json:"windows" bson:"windows"`
	Mac     bool `gorm:"column:mac" json:"mac" bson:"mac"`
	Linux   bool `gorm:"column:linux" json:"linux" bson:"linux"`

	MetacriticScore *int `gorm:"column:metacritic_score" json:"metacritic_score" bson:"metacritic_score"`
	Achievements    int  `gorm:"column:achievements" json:"achievements" bson:"achievements"`
	Recommendations int  `gorm:"column:recommendations" json:"recommendations" bson:"recommendations"`
	UserScore       int  `gorm:"column:user_score" json:"user_score" bson:"user_score"`
	Positive        int  `gorm:"column:positive" json:"positive" bson:"positive"`
	Negative        int  `gorm:"column:negative" json:"negative" bson:"negative"`

	EstimatedOwners          string `gorm:"column:estimated_owners;size:100" json:"estimated_owners" bson:"estimated_owners"`
	AveragePlaytimeForever   *int   `gorm:"column:average_playtime_forever" json:"average_playtime_forever" bson:"average_playtime_forever"`
	AveragePlaytimeTwoWeeks  *int   `gorm:"column:average_playtime_2weeks" json:"average_playtime_2weeks" bson:"average_playtime_2weeks"`
	MedianPlaytimeForever    *int   `gorm:"column:median_playtime_forever" json:"median_playtime_forever" bson:"median_playtime_forever"`
	MedianPlaytimeTwoWeeks   *int   `gorm:"column:median_playtime_2weeks" json:"median_playtime_2weeks" bson:"median_playtime_2weeks"`
	Discount                 *int   `gorm:"column:discount" json:"discount" bson:"discount"`
	PeakCCU                  int    `gorm:"column:peak_ccu" json:"peak_ccu" bson:"peak_ccu"`
	PctPositiveTotal         *int   `gorm:"column:pct_pos_total" json:"pct_pos_total" bson:"pct_pos_total"`
	NumReviewsTotal          *int   `gorm:"column:num_reviews_total" json:"num_reviews_total" bson:"num_reviews_total"`
	PctPositiveRecent        *int   `gorm:"column:pct_pos_recent" json:"pct_pos_recent" bson:"pct_pos_recent"`
	NumReviewsRecent         *int   `gorm:"column:num_reviews_recent" json:"num_reviews_recent" bson:"num_reviews_recent"`

	// Embedded semi-structured columns from the source CSV. On relational
	// targets these land in JSON columns; the normalizer replaces them
	// with dimension and association rows.
	SupportedLanguages []string       `gorm:"column:supported_languages;serializer:json" json:"supported_languages" bson:"supported_languages"`
	FullAudioLanguages []string       `gorm:"column:full_audio_languages;serializer:json" json:"full_audio_languages" bson:"full_audio_languages"`
	Developers         []string       `gorm:"column:developers;serializer:json" json:"developers" bson:"developers"`
	Publishers         []string       `gorm:"column:publishers;serializer:json" json:"publishers" bson:"publishers"`
	Categories         []string       `gorm:"column:categories;serializer:json" json:"categories" bson:"categories"`
	Genres             []string       `gorm:"column:genres;serializer:json" json:"genres" bson:"genres"`
	Tags               map[string]int `gorm:"column:tags;serializer:json" json:"tags" bson:"tags"`
}

// TableName overrides the table name for raw games.
func (RawGame) TableName() string {
	return "games"
}

// RawReview is one row of the reviews dataset. Author columns arrive in the
// CSV as "author.steamid" etc. and are flattened by the loader.
type RawReview struct {
	ReviewID         int64   `gorm:"column:review_id;primaryKey" json:"review_id" bson:"review_id"`
	AppID            int     `gorm:"column:app_id;index" json:"app_id" bson:"app_id"`
	AppName          string  `gorm:"column:app_name;size:500" json:"app_name" bson:"app_name"`
	Language         string  `gorm:"column:language;size:50" json:"language" bson:"language"`
	Review           string  `gorm:"column:review;type:text" json:"review" bson:"review"`
	TimestampCreated int64   `gorm:"column:timestamp_created" json:"timestamp_created" bson:"timestamp_created"`
	TimestampUpdated int64   `gorm:"column:timestamp_updated" json:"timestamp_updated" bson:"timestamp_updated"`
	Recommended      bool    `gorm:"column:recommended" json:"recommended" bson:"recommended"`
	VotesHelpful     int64   `gorm:"column:votes_helpful" json:"votes_helpful" bson:"votes_helpful"`
	VotesFunny       int64   `gorm:"column:votes_funny" json:"votes_funny" bson:"votes_funny"`
	WeightedVoteScore float64 `gorm:"column:weighted_vote_score" json:"weighted_vote_score" bson:"weighted_vote_score"`
	CommentCount     int     `gorm:"column:comment_count" json:"comment_count" bson:"comment_count"`
	SteamPurchase    bool    `gorm:"column:steam_purchase" json:"steam_purchase" bson:"steam_purchase"`
	ReceivedForFree  bool    `gorm:"column:received_for_free" json:"received_for_free" bson:"received_for_free"`
	EarlyAccess      bool    `gorm:"column:written_during_early_access" json:"written_during_early_access" bson:"written_during_early_access"`

	// AuthorSteamID is nil when the source row carried no author. Such
	// reviews are kept in the snapshot but excluded from user aggregation.
	AuthorSteamID              *int64   `gorm:"column:author_steamid;index" json:"author_steamid" bson:"author_steamid"`
	AuthorNumGamesOwned        int      `gorm:"column:author_num_games_owned" json:"author_num_games_owned" bson:"author_num_games_owned"`
	AuthorNumReviews           int      `gorm:"column:author_num_reviews" json:"author_num_reviews" bson:"author_num_reviews"`
	AuthorPlaytimeForever      float64  `gorm:"column:author_playtime_forever" json:"author_playtime_forever" bson:"author_playtime_forever"`
	AuthorPlaytimeLastTwoWeeks float64  `gorm:"column:author_playtime_last_two_weeks" json:"author_playtime_last_two_weeks" bson:"author_playtime_last_two_weeks"`
	AuthorPlaytimeAtReview     *float64 `gorm:"column:author_playtime_at_review" json:"author_playtime_at_review" bson:"author_playtime_at_review"`
	AuthorLastPlayed           float64  `gorm:"column:author_last_played" json:"author_last_played" bson:"author_last_played"`
}

// TableName overrides the table name for raw reviews.
func (RawReview) TableName() string {
	return "reviews"
}

// RawCompletionRecord is one row of the completion-time dataset. It refers
// to games by name only; matching against the games table happens during
// normalization.
type RawCompletionRecord struct {
	ID                   int    `gorm:"column:id;primaryKey" json:"id" bson:"id"`
	GameName             string `gorm:"column:game_name;size:500" json:"game_name" bson:"game_name"`
	MainStoryMinutes     *int   `gorm:"column:main_story_minutes" json:"main_story_minutes" bson:"main_story_minutes"`
	MainExtraMinutes     *int   `gorm:"column:main_extra_minutes" json:"main_extra_minutes" bson:"main_extra_minutes"`
	CompletionistMinutes *int   `gorm:"column:completionist_minutes" json:"completionist_minutes" bson:"completionist_minutes"`
	SubmissionCount      int    `gorm:"column:submission_count" json:"submission_count" bson:"submission_count"`
}
