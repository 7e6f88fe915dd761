package importer

import (
	"context"
	"time"

	"game-warehouse/feature/normalize"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Importer loads a snapshot into one target engine.
type Importer interface {
	// Engine returns the adapter's engine name ("mysql", "postgres", "mongo").
	Engine() string
	// Import replaces the engine's contents with the snapshot's tables.
	Import(ctx context.Context, snap *normalize.Snapshot) (*Result, error)
}

// Result describes one completed import run.
type Result struct {
	RunID  string `json:"run_id"`
	Engine string `json:"engine"`

	// ResetDuration covers schema preparation and truncation,
	// ImportDuration the bulk load, VerifyDuration the row-count check.
	ResetDuration  time.Duration `json:"reset_duration"`
	ImportDuration time.Duration `json:"import_duration"`
	VerifyDuration time.Duration `json:"verify_duration"`

	// Rows holds imported row counts keyed by table name.
	Rows map[string]int `json:"rows"`
}

func newResult(engine string) *Result {
	return &Result{
		RunID:  uuid.NewString(),
		Engine: engine,
		Rows:   make(map[string]int),
	}
}

// Total returns the number of rows imported across all tables.
func (r *Result) Total() int {
	var n int
	for _, c := range r.Rows {
		n += c
	}
	return n
}

// Log writes a one-line summary of the run.
func (r *Result) Log(logger *zap.Logger) {
	logger.Info("import finished",
		zap.String("run_id", r.RunID),
		zap.String("engine", r.Engine),
		zap.Int("rows", r.Total()),
		zap.Duration("reset", r.ResetDuration),
		zap.Duration("import", r.ImportDuration),
		zap.Duration("verify", r.VerifyDuration),
	)
}

// tableOrder lists the physical table names in dependency order: dimensions
// before games, games before associations and derived tables. Truncation
// runs in reverse.
var tableOrder = []string{
	"developers",
	"publishers",
	"genres",
	"categories",
	"tags",
	"games",
	"game_developers",
	"game_publishers",
	"game_genres",
	"game_categories",
	"game_tags",
	"reviews",
	"hltb",
	"user_profiles",
	"game_review_summary",
	"developer_stats",
	"game_price_history",
}

// asDocs converts a typed slice into the []interface{} shape wanted by
// bulk-insert APIs.
func asDocs[T any](rows []T) []interface{} {
	docs := make([]interface{}, len(rows))
	for i := range rows {
		docs[i] = rows[i]
	}
	return docs
}
