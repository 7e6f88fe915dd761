package config

import (
	"reflect"
	"strings"

	"game-warehouse/core/database"
	"game-warehouse/core/logger"
	"game-warehouse/core/server"
	"game-warehouse/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, divided into
// partial configurations per concern.
type Config struct {
	// Server holds configuration for the snapshot report HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage that can hold
	// raw dataset files (e.g. S3, MinIO).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the MySQL import target.
	Database database.Config `mapstructure:"database"`
	// Postgres holds configuration for the PostgreSQL import target.
	Postgres database.PostgresConfig `mapstructure:"postgres"`
	// Mongo holds configuration for the MongoDB import target.
	Mongo database.MongoConfig `mapstructure:"mongo"`
	// Pipeline holds configuration for the normalization engine run.
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// PipelineConfig holds every knob of one normalization run: dataset
// locations, the deterministic review cap, per-dataset skip flags, the
// simulation reference date and the snapshot cache location.
type PipelineConfig struct {
	// GamesFile is the games dataset path (local file or object key).
	GamesFile string `mapstructure:"games_file" default:"data/games.csv"`
	// ReviewsFile is the reviews dataset path.
	ReviewsFile string `mapstructure:"reviews_file" default:"data/reviews.csv"`
	// CompletionsFile is the completion-times dataset path.
	CompletionsFile string `mapstructure:"completions_file" default:"data/hltb.csv"`
	// ReviewLimit caps review rows entering normalization (0 = no cap).
	ReviewLimit int `mapstructure:"review_limit" default:"1000000"`
	// SkipGames omits the games dataset and everything derived from it.
	SkipGames bool `mapstructure:"skip_games" default:"false"`
	// SkipReviews omits the reviews dataset and its aggregates.
	SkipReviews bool `mapstructure:"skip_reviews" default:"false"`
	// SkipCompletions omits the completion-times dataset.
	SkipCompletions bool `mapstructure:"skip_completions" default:"false"`
	// ReferenceDate anchors the simulated price history (YYYY-MM-DD).
	ReferenceDate string `mapstructure:"reference_date" default:"2025-03-01"`
	// CacheDir is the snapshot cache directory.
	CacheDir string `mapstructure:"cache_dir" default:".snapshots"`
	// UseCache reuses a cached snapshot when the fingerprint matches.
	UseCache bool `mapstructure:"use_cache" default:"true"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env if present; absence is fine in production.
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to register default values.
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys
	// (e.g. PIPELINE_REVIEW_LIMIT -> pipeline.review_limit).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default
// values in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set the default (even empty) to register the key for
		// AutomaticEnv.
		v.SetDefault(key, defaultValue)
	}
}
