package cmd

import (
	"context"
	"fmt"

	"game-warehouse/core/config"
	"game-warehouse/core/database"
	"game-warehouse/core/logger"
	"game-warehouse/feature/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var importEngines []string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the snapshot into the target engines",
	Long: `Builds (or loads from cache) the normalized snapshot and bulk-loads
it into the selected database engines. Each engine receives identical
tables, including the deterministic dimension IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx := cmd.Context()
		snap, hit, err := buildSnapshot(ctx, cfg, logg)
		if err != nil {
			return err
		}
		logg.Info("snapshot ready for import",
			zap.String("fingerprint", snap.Fingerprint),
			zap.Bool("cache_hit", hit))

		importers, cleanup, err := connectImporters(ctx, cfg, logg, importEngines)
		if err != nil {
			return err
		}
		defer cleanup()

		for _, imp := range importers {
			if _, err := imp.Import(ctx, snap); err != nil {
				return fmt.Errorf("%s import failed: %w", imp.Engine(), err)
			}
		}
		return nil
	},
}

// connectImporters opens a connection per requested engine and returns the
// matching importers plus a cleanup closing every connection.
func connectImporters(ctx context.Context, cfg *config.Config, logg *zap.Logger, engines []string) ([]importer.Importer, func(), error) {
	var (
		importers []importer.Importer
		closers   []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, engine := range engines {
		switch engine {
		case "mysql":
			db, err := database.Connect(cfg.Database)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("mysql: %w", err)
			}
			closers = append(closers, closeGorm(db))
			importers = append(importers, importer.NewMySQL(db, logg))
		case "postgres":
			pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("postgres: %w", err)
			}
			closers = append(closers, pool.Close)
			importers = append(importers, importer.NewPostgres(pool, logg))
		case "mongo":
			client, db, err := database.ConnectMongo(ctx, cfg.Mongo)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("mongo: %w", err)
			}
			closers = append(closers, func() { _ = client.Disconnect(ctx) })
			importers = append(importers, importer.NewMongo(db, logg))
		default:
			cleanup()
			return nil, nil, fmt.Errorf("unknown engine %q (expected mysql, postgres or mongo)", engine)
		}
	}
	if len(importers) == 0 {
		return nil, nil, fmt.Errorf("no engines selected")
	}
	return importers, cleanup, nil
}

// closeGorm returns a closer releasing the sql.DB behind a GORM handle.
func closeGorm(db *gorm.DB) func() {
	return func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func init() {
	importCmd.Flags().StringSliceVar(&importEngines, "engines",
		[]string{"mysql", "postgres", "mongo"}, "engines to load (mysql, postgres, mongo)")
	RootCmd.AddCommand(importCmd)
}
