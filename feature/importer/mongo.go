package importer

import (
	"context"
	"fmt"
	"time"

	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo imports snapshots as one collection per table. Dimension documents
// keep their deterministic surrogate IDs as explicit fields, so cross-engine
// verification can compare them against the relational targets.
type Mongo struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongo creates a MongoDB importer on top of an open database handle.
func NewMongo(db *mongo.Database, logger *zap.Logger) *Mongo {
	return &Mongo{db: db, logger: logger}
}

// Engine implements Importer.
func (m *Mongo) Engine() string {
	return "mongo"
}

// Reset drops every snapshot collection.
func (m *Mongo) Reset(ctx context.Context) error {
	for _, name := range tableOrder {
		if err := m.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", name, err)
		}
	}
	return nil
}

// Import implements Importer.
func (m *Mongo) Import(ctx context.Context, snap *normalize.Snapshot) (*Result, error) {
	res := newResult(m.Engine())
	m.logger.Info("starting mongo import", zap.String("run_id", res.RunID))

	start := time.Now()
	if err := m.Reset(ctx); err != nil {
		return nil, fmt.Errorf("mongo reset: %w", err)
	}
	res.ResetDuration = time.Since(start)

	start = time.Now()
	steps := []func() error{
		func() error { return m.insertAll(ctx, res, "developers", asDocs(snap.Developers)) },
		func() error { return m.insertAll(ctx, res, "publishers", asDocs(snap.Publishers)) },
		func() error { return m.insertAll(ctx, res, "genres", asDocs(snap.Genres)) },
		func() error { return m.insertAll(ctx, res, "categories", asDocs(snap.Categories)) },
		func() error { return m.insertAll(ctx, res, "tags", asDocs(snap.Tags)) },
		func() error { return m.insertAll(ctx, res, "games", asDocs(snap.Games)) },
		func() error { return m.insertAll(ctx, res, "game_developers", asDocs(snap.GameDevelopers)) },
		func() error { return m.insertAll(ctx, res, "game_publishers", asDocs(snap.GamePublishers)) },
		func() error { return m.insertAll(ctx, res, "game_genres", asDocs(snap.GameGenres)) },
		func() error { return m.insertAll(ctx, res, "game_categories", asDocs(snap.GameCategories)) },
		func() error { return m.insertAll(ctx, res, "game_tags", asDocs(snap.GameTags)) },
		func() error { return m.insertAll(ctx, res, "reviews", asDocs(snap.Reviews)) },
		func() error { return m.insertAll(ctx, res, "hltb", asDocs(snap.Completions)) },
		func() error { return m.insertAll(ctx, res, "user_profiles", asDocs(snap.UserProfiles)) },
		func() error { return m.insertAll(ctx, res, "game_review_summary", asDocs(snap.ReviewSummaries)) },
		func() error { return m.insertAll(ctx, res, "developer_stats", asDocs(snap.DeveloperStats)) },
		func() error { return m.insertAll(ctx, res, "game_price_history", asDocs(snap.PriceHistory)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	res.ImportDuration = time.Since(start)

	start = time.Now()
	if err := m.verifyCounts(ctx, snap); err != nil {
		return nil, err
	}
	res.VerifyDuration = time.Since(start)

	res.Log(m.logger)
	return res, nil
}

func (m *Mongo) insertAll(ctx context.Context, res *Result, name string, docs []interface{}) error {
	res.Rows[name] = len(docs)
	if len(docs) == 0 {
		return nil
	}
	// Unordered inserts let the server parallelize the batch.
	opts := options.InsertMany().SetOrdered(false)
	if _, err := m.db.Collection(name).InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	return nil
}

func (m *Mongo) verifyCounts(ctx context.Context, snap *normalize.Snapshot) error {
	want := snap.TableCounts()
	for _, name := range tableOrder {
		got, err := m.db.Collection(name).CountDocuments(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", name, err)
		}
		if int(got) != want[name] {
			return fmt.Errorf("document count mismatch on %s: imported %d, snapshot has %d", name, got, want[name])
		}
	}
	return nil
}

// FirstDevelopers returns the first n developer documents ordered by their
// deterministic ID.
func (m *Mongo) FirstDevelopers(ctx context.Context, n int) ([]models.Developer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "developer_id", Value: 1}}).
		SetLimit(int64(n))
	cur, err := m.db.Collection("developers").Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch developers: %w", err)
	}
	defer cur.Close(ctx)

	var devs []models.Developer
	if err := cur.All(ctx, &devs); err != nil {
		return nil, fmt.Errorf("failed to decode developers: %w", err)
	}
	return devs, nil
}
