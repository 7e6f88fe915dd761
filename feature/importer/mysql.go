package importer

import (
	"context"
	"fmt"
	"time"

	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MySQL imports snapshots through GORM batch inserts.
type MySQL struct {
	db        *gorm.DB
	logger    *zap.Logger
	batchSize int
}

// NewMySQL creates a MySQL importer on top of an open GORM connection.
func NewMySQL(db *gorm.DB, logger *zap.Logger) *MySQL {
	return &MySQL{db: db, logger: logger, batchSize: 1000}
}

// Engine implements Importer.
func (m *MySQL) Engine() string {
	return "mysql"
}

// Migrate creates or updates the snapshot tables.
func (m *MySQL) Migrate(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(
		&models.Developer{},
		&models.Publisher{},
		&models.Genre{},
		&models.Category{},
		&models.Tag{},
		&models.RawGame{},
		&models.GameDeveloper{},
		&models.GamePublisher{},
		&models.GameGenre{},
		&models.GameCategory{},
		&models.GameTag{},
		&models.RawReview{},
		&models.CompletionRecord{},
		&models.UserProfile{},
		&models.GameReviewSummary{},
		&models.DeveloperStats{},
		&models.PriceHistoryPoint{},
	)
}

// Reset truncates every snapshot table. Foreign key checks are disabled for
// the duration so truncation order does not matter to the server; the
// statements still run in reverse dependency order.
func (m *MySQL) Reset(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	if err := db.Exec("SET FOREIGN_KEY_CHECKS = 0").Error; err != nil {
		return fmt.Errorf("failed to disable fk checks: %w", err)
	}
	var truncErr error
	for i := len(tableOrder) - 1; i >= 0; i-- {
		if err := db.Exec("TRUNCATE TABLE " + tableOrder[i]).Error; err != nil {
			truncErr = fmt.Errorf("failed to truncate %s: %w", tableOrder[i], err)
			break
		}
	}
	if err := db.Exec("SET FOREIGN_KEY_CHECKS = 1").Error; err != nil && truncErr == nil {
		return fmt.Errorf("failed to re-enable fk checks: %w", err)
	}
	return truncErr
}

// Import implements Importer.
func (m *MySQL) Import(ctx context.Context, snap *normalize.Snapshot) (*Result, error) {
	res := newResult(m.Engine())
	m.logger.Info("starting mysql import", zap.String("run_id", res.RunID))

	start := time.Now()
	if err := m.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("mysql migrate: %w", err)
	}
	if err := m.Reset(ctx); err != nil {
		return nil, fmt.Errorf("mysql reset: %w", err)
	}
	res.ResetDuration = time.Since(start)

	start = time.Now()
	db := m.db.WithContext(ctx)
	steps := []func() error{
		func() error { return createBatched(db, m.batchSize, res, snap.Developers) },
		func() error { return createBatched(db, m.batchSize, res, snap.Publishers) },
		func() error { return createBatched(db, m.batchSize, res, snap.Genres) },
		func() error { return createBatched(db, m.batchSize, res, snap.Categories) },
		func() error { return createBatched(db, m.batchSize, res, snap.Tags) },
		func() error { return createBatched(db, m.batchSize, res, snap.Games) },
		func() error { return createBatched(db, m.batchSize, res, snap.GameDevelopers) },
		func() error { return createBatched(db, m.batchSize, res, snap.GamePublishers) },
		func() error { return createBatched(db, m.batchSize, res, snap.GameGenres) },
		func() error { return createBatched(db, m.batchSize, res, snap.GameCategories) },
		func() error { return createBatched(db, m.batchSize, res, snap.GameTags) },
		func() error { return createBatched(db, m.batchSize, res, snap.Reviews) },
		func() error { return createBatched(db, m.batchSize, res, snap.Completions) },
		func() error { return createBatched(db, m.batchSize, res, snap.UserProfiles) },
		func() error { return createBatched(db, m.batchSize, res, snap.ReviewSummaries) },
		func() error { return createBatched(db, m.batchSize, res, snap.DeveloperStats) },
		func() error { return createBatched(db, m.batchSize, res, snap.PriceHistory) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	res.ImportDuration = time.Since(start)

	start = time.Now()
	if err := m.verifyCounts(ctx, snap, res); err != nil {
		return nil, err
	}
	res.VerifyDuration = time.Since(start)

	res.Log(m.logger)
	return res, nil
}

func (m *MySQL) verifyCounts(ctx context.Context, snap *normalize.Snapshot, res *Result) error {
	want := snap.TableCounts()
	db := m.db.WithContext(ctx)
	for _, table := range tableOrder {
		var got int64
		if err := db.Table(table).Count(&got).Error; err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		if int(got) != want[table] {
			return fmt.Errorf("row count mismatch on %s: imported %d, snapshot has %d", table, got, want[table])
		}
	}
	return nil
}

// FirstDevelopers returns the first n developer rows ordered by ID.
func (m *MySQL) FirstDevelopers(ctx context.Context, n int) ([]models.Developer, error) {
	var devs []models.Developer
	err := m.db.WithContext(ctx).Order("developer_id").Limit(n).Find(&devs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch developers: %w", err)
	}
	return devs, nil
}

func createBatched[T interface{ TableName() string }](db *gorm.DB, batch int, res *Result, rows []T) error {
	var zero T
	table := zero.TableName()
	if len(rows) == 0 {
		res.Rows[table] = 0
		return nil
	}
	if err := db.CreateInBatches(rows, batch).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	res.Rows[table] = len(rows)
	return nil
}
