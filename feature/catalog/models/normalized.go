package models

// Developer is a dimension row extracted from the embedded developers list.
// ID is a deterministic surrogate key: rank of the canonical name in the
// byte-wise sorted set of all developer names, starting at 1.
type Developer struct {
	ID        int    `gorm:"column:developer_id;primaryKey" json:"developer_id" bson:"developer_id"`
	Name      string `gorm:"column:name;size:255;uniqueIndex" json:"name" bson:"name"`
	GameCount int    `gorm:"column:game_count" json:"game_count" bson:"game_count"`
}

// TableName overrides the table name for developers.
func (Developer) TableName() string {
	return "developers"
}

// Publisher is a dimension row extracted from the embedded publishers list.
type Publisher struct {
	ID        int    `gorm:"column:publisher_id;primaryKey" json:"publisher_id" bson:"publisher_id"`
	Name      string `gorm:"column:name;size:255;uniqueIndex" json:"name" bson:"name"`
	GameCount int    `gorm:"column:game_count" json:"game_count" bson:"game_count"`
}

// TableName overrides the table name for publishers.
func (Publisher) TableName() string {
	return "publishers"
}

// Genre is a dimension row extracted from the embedded genres list.
type Genre struct {
	ID        int    `gorm:"column:genre_id;primaryKey" json:"genre_id" bson:"genre_id"`
	Name      string `gorm:"column:name;size:100;uniqueIndex" json:"name" bson:"name"`
	GameCount int    `gorm:"column:game_count" json:"game_count" bson:"game_count"`
}

// TableName overrides the table name for genres.
func (Genre) TableName() string {
	return "genres"
}

// Category is a dimension row extracted from the embedded categories list.
type Category struct {
	ID        int    `gorm:"column:category_id;primaryKey" json:"category_id" bson:"category_id"`
	Name      string `gorm:"column:name;size:100;uniqueIndex" json:"name" bson:"name"`
	GameCount int    `gorm:"column:game_count" json:"game_count" bson:"game_count"`
}

// TableName overrides the table name for categories.
func (Category) TableName() string {
	return "categories"
}

// Tag is a dimension row extracted from the embedded tag vote map.
// TotalVotes is the sum of per-game vote counts across all games.
type Tag struct {
	ID         int    `gorm:"column:tag_id;primaryKey" json:"tag_id" bson:"tag_id"`
	Name       string `gorm:"column:name;size:100;uniqueIndex" json:"name" bson:"name"`
	TotalVotes int    `gorm:"column:total_votes" json:"total_votes" bson:"total_votes"`
}

// TableName overrides the table name for tags.
func (Tag) TableName() string {
	return "tags"
}

// GameDeveloper links a game to a developer dimension row.
type GameDeveloper struct {
	GameAppID   int `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	DeveloperID int `gorm:"column:developer_id;primaryKey" json:"developer_id" bson:"developer_id"`
}

// TableName overrides the table name for game-developer associations.
func (GameDeveloper) TableName() string {
	return "game_developers"
}

// GamePublisher links a game to a publisher dimension row.
type GamePublisher struct {
	GameAppID   int `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	PublisherID int `gorm:"column:publisher_id;primaryKey" json:"publisher_id" bson:"publisher_id"`
}

// TableName overrides the table name for game-publisher associations.
func (GamePublisher) TableName() string {
	return "game_publishers"
}

// GameGenre links a game to a genre dimension row.
type GameGenre struct {
	GameAppID int `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	GenreID   int `gorm:"column:genre_id;primaryKey" json:"genre_id" bson:"genre_id"`
}

// TableName overrides the table name for game-genre associations.
func (GameGenre) TableName() string {
	return "game_genres"
}

// GameCategory links a game to a category dimension row.
type GameCategory struct {
	GameAppID  int `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	CategoryID int `gorm:"column:category_id;primaryKey" json:"category_id" bson:"category_id"`
}

// TableName overrides the table name for game-category associations.
func (GameCategory) TableName() string {
	return "game_categories"
}

// GameTag links a game to a tag dimension row and carries the per-game
// vote count copied verbatim from the source map.
type GameTag struct {
	GameAppID int `gorm:"column:game_appid;primaryKey" json:"game_appid" bson:"game_appid"`
	TagID     int `gorm:"column:tag_id;primaryKey" json:"tag_id" bson:"tag_id"`
	VoteCount int `gorm:"column:vote_count" json:"vote_count" bson:"vote_count"`
}

// TableName overrides the table name for game-tag associations.
func (GameTag) TableName() string {
	return "game_tags"
}

// CompletionRecord is a completion-time row joined against the games table.
// A raw record that matched N games by case-insensitive name produces N
// rows; a record with no match produces one row with a nil MatchedAppID so
// downstream consumers decide orphan policy themselves.
type CompletionRecord struct {
	ID                   int    `gorm:"column:id;index" json:"id" bson:"id"`
	MatchedAppID         *int   `gorm:"column:matched_appid;index" json:"matched_appid" bson:"matched_appid"`
	GameName             string `gorm:"column:game_name;size:500" json:"game_name" bson:"game_name"`
	MainStoryMinutes     *int   `gorm:"column:main_story_minutes" json:"main_story_minutes" bson:"main_story_minutes"`
	MainExtraMinutes     *int   `gorm:"column:main_extra_minutes" json:"main_extra_minutes" bson:"main_extra_minutes"`
	CompletionistMinutes *int   `gorm:"column:completionist_minutes" json:"completionist_minutes" bson:"completionist_minutes"`
	SubmissionCount      int    `gorm:"column:submission_count" json:"submission_count" bson:"submission_count"`
}

// TableName overrides the table name for joined completion records.
func (CompletionRecord) TableName() string {
	return "hltb"
}
