package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"game-warehouse/feature/catalog/models"
)

// row wraps one CSV record with its header index. Accessors record the
// first conversion failure so parse functions can bail out once.
type row struct {
	header map[string]int
	fields []string
	bad    bool
}

func (r *row) raw(col string) string {
	idx, ok := r.header[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r *row) str(col string) string {
	return r.raw(col)
}

func (r *row) intVal(col string) int {
	v := r.raw(col)
	if v == "" {
		return 0
	}
	n, err := parseIntish(v)
	if err != nil {
		r.bad = true
		return 0
	}
	return n
}

func (r *row) int64Val(col string) int64 {
	v := r.raw(col)
	if v == "" {
		return 0
	}
	n, err := parseInt64ish(v)
	if err != nil {
		r.bad = true
		return 0
	}
	return n
}

func (r *row) floatVal(col string) float64 {
	v := r.raw(col)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.bad = true
		return 0
	}
	return f
}

func (r *row) boolVal(col string) bool {
	switch strings.ToLower(r.raw(col)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (r *row) optInt(col string) *int {
	v := r.raw(col)
	if v == "" {
		return nil
	}
	n, err := parseIntish(v)
	if err != nil {
		r.bad = true
		return nil
	}
	return &n
}

func (r *row) optInt64(col string) *int64 {
	v := r.raw(col)
	if v == "" {
		return nil
	}
	n, err := parseInt64ish(v)
	if err != nil {
		r.bad = true
		return nil
	}
	return &n
}

func (r *row) optFloat(col string) *float64 {
	v := r.raw(col)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.bad = true
		return nil
	}
	return &f
}

func (r *row) optDate(col string) *time.Time {
	v := r.raw(col)
	if v == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "Jan 2, 2006", "2 Jan, 2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	// An unreadable release date degrades to absent rather than dropping
	// the whole game row.
	return nil
}

// stringList decodes an embedded JSON array column. An empty cell is an
// absent list; anything else must be valid JSON.
func (r *row) stringList(col string) []string {
	v := r.raw(col)
	if v == "" || v == "[]" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(v), &list); err != nil {
		r.bad = true
		return nil
	}
	return list
}

// tagMap decodes the embedded tag vote map. Some exports encode "no
// tags" as an empty JSON array instead of an object.
func (r *row) tagMap(col string) map[string]int {
	v := r.raw(col)
	if v == "" || v == "[]" || v == "{}" {
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(v), &m); err != nil {
		r.bad = true
		return nil
	}
	return m
}

func parseGameRow(header map[string]int, fields []string) (models.RawGame, bool) {
	r := &row{header: header, fields: fields}

	g := models.RawGame{
		AppID:       r.intVal("appid"),
		Name:        r.str("name"),
		ReleaseDate: r.optDate("release_date"),
		RequiredAge: r.intVal("required_age"),
		Price:       r.optFloat("price"),
		DLCCount:    r.intVal("dlc_count"),

		Windows: r.boolVal("windows"),
		Mac:     r.boolVal("mac"),
		Linux:   r.boolVal("linux"),

		MetacriticScore: r.optInt("metacritic_score"),
		Achievements:    r.intVal("achievements"),
		Recommendations: r.intVal("recommendations"),
		UserScore:       r.intVal("user_score"),
		Positive:        r.intVal("positive"),
		Negative:        r.intVal("negative"),

		EstimatedOwners:         r.str("estimated_owners"),
		AveragePlaytimeForever:  r.optInt("average_playtime_forever"),
		AveragePlaytimeTwoWeeks: r.optInt("average_playtime_2weeks"),
		MedianPlaytimeForever:   r.optInt("median_playtime_forever"),
		MedianPlaytimeTwoWeeks:  r.optInt("median_playtime_2weeks"),
		Discount:                r.optInt("discount"),
		PeakCCU:                 r.intVal("peak_ccu"),
		PctPositiveTotal:        r.optInt("pct_pos_total"),
		NumReviewsTotal:         r.optInt("num_reviews_total"),
		PctPositiveRecent:       r.optInt("pct_pos_recent"),
		NumReviewsRecent:        r.optInt("num_reviews_recent"),

		SupportedLanguages: r.stringList("supported_languages"),
		FullAudioLanguages: r.stringList("full_audio_languages"),
		Developers:         r.stringList("developers"),
		Publishers:         r.stringList("publishers"),
		Categories:         r.stringList("categories"),
		Genres:             r.stringList("genres"),
		Tags:               r.tagMap("tags"),
	}

	if r.bad || g.AppID <= 0 {
		return models.RawGame{}, false
	}
	if g.Price != nil && *g.Price < 0 {
		return models.RawGame{}, false
	}
	return g, true
}

func parseReviewRow(header map[string]int, fields []string) (models.RawReview, bool) {
	r := &row{header: header, fields: fields}

	rev := models.RawReview{
		ReviewID:          r.int64Val("review_id"),
		AppID:             r.intVal("app_id"),
		AppName:           r.str("app_name"),
		Language:          r.str("language"),
		Review:            r.str("review"),
		TimestampCreated:  r.int64Val("timestamp_created"),
		TimestampUpdated:  r.int64Val("timestamp_updated"),
		Recommended:       r.boolVal("recommended"),
		VotesHelpful:      r.int64Val("votes_helpful"),
		VotesFunny:        r.int64Val("votes_funny"),
		WeightedVoteScore: r.floatVal("weighted_vote_score"),
		CommentCount:      r.intVal("comment_count"),
		SteamPurchase:     r.boolVal("steam_purchase"),
		ReceivedForFree:   r.boolVal("received_for_free"),
		EarlyAccess:       r.boolVal("written_during_early_access"),

		AuthorSteamID:              r.optInt64("author.steamid"),
		AuthorNumGamesOwned:        r.intVal("author.num_games_owned"),
		AuthorNumReviews:           r.intVal("author.num_reviews"),
		AuthorPlaytimeForever:      r.floatVal("author.playtime_forever"),
		AuthorPlaytimeLastTwoWeeks: r.floatVal("author.playtime_last_two_weeks"),
		AuthorPlaytimeAtReview:     r.optFloat("author.playtime_at_review"),
		AuthorLastPlayed:           r.floatVal("author.last_played"),
	}

	if r.bad || rev.ReviewID <= 0 || rev.AppID <= 0 {
		return models.RawReview{}, false
	}
	if rev.VotesHelpful < 0 || rev.VotesFunny < 0 {
		return models.RawReview{}, false
	}
	return rev, true
}

func parseCompletionRow(header map[string]int, fields []string) (models.RawCompletionRecord, bool) {
	r := &row{header: header, fields: fields}

	rec := models.RawCompletionRecord{
		ID:                   r.intVal("id"),
		GameName:             r.str("game_name"),
		MainStoryMinutes:     r.optInt("main_story"),
		MainExtraMinutes:     r.optInt("main_extra"),
		CompletionistMinutes: r.optInt("completionist"),
		SubmissionCount:      r.intVal("submissions"),
	}

	if r.bad || rec.ID <= 0 || rec.GameName == "" {
		return models.RawCompletionRecord{}, false
	}
	return rec, true
}

// parseIntish accepts integers serialized as floats ("12.0"), which the
// source exports produce for nullable numeric columns.
func parseIntish(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseInt64ish(v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
