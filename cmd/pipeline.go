package cmd

import (
	"context"
	"fmt"
	"time"

	"game-warehouse/core/config"
	"game-warehouse/core/storage"
	"game-warehouse/feature/catalog"
	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"

	"go.uber.org/zap"
)

// pipelineOptions translates the pipeline configuration into engine
// options.
func pipelineOptions(cfg config.PipelineConfig) (normalize.Options, error) {
	opts := normalize.Options{
		ReviewLimit:     cfg.ReviewLimit,
		SkipGames:       cfg.SkipGames,
		SkipReviews:     cfg.SkipReviews,
		SkipCompletions: cfg.SkipCompletions,
	}
	if cfg.ReferenceDate != "" {
		ref, err := time.Parse("2006-01-02", cfg.ReferenceDate)
		if err != nil {
			return normalize.Options{}, fmt.Errorf("invalid reference date %q: %w", cfg.ReferenceDate, err)
		}
		opts.ReferenceDate = ref
	}
	return opts, nil
}

// buildSnapshot loads the configured datasets, fingerprints them and
// returns the snapshot, served from the cache when the fingerprint is
// already known. The bool result reports a cache hit.
func buildSnapshot(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*normalize.Snapshot, bool, error) {
	opts, err := pipelineOptions(cfg.Pipeline)
	if err != nil {
		return nil, false, err
	}
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	// The storage client is optional: without it only local dataset
	// files can be read.
	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("storage client unavailable, reading local files only", zap.Error(err))
	} else {
		client = c
	}
	loader := catalog.NewLoader(client, cfg.Storage.Bucket, logg)

	var (
		games       []models.RawGame
		reviews     []models.RawReview
		completions []models.RawCompletionRecord
		sources     []normalize.SourceInfo
	)
	if !opts.SkipGames {
		rows, res, err := loader.LoadGames(ctx, cfg.Pipeline.GamesFile)
		if err != nil {
			return nil, false, err
		}
		games = rows
		sources = append(sources, res.Source)
	}
	if !opts.SkipReviews {
		rows, res, err := loader.LoadReviews(ctx, cfg.Pipeline.ReviewsFile)
		if err != nil {
			return nil, false, err
		}
		reviews = rows
		sources = append(sources, res.Source)
	}
	if !opts.SkipCompletions {
		rows, res, err := loader.LoadCompletions(ctx, cfg.Pipeline.CompletionsFile)
		if err != nil {
			return nil, false, err
		}
		completions = rows
		sources = append(sources, res.Source)
	}

	fingerprint := normalize.Fingerprint(sources, opts)

	if !cfg.Pipeline.UseCache {
		snap, err := normalize.Build(games, reviews, completions, opts)
		if err != nil {
			return nil, false, err
		}
		snap.Fingerprint = fingerprint
		return snap, false, nil
	}

	store, err := normalize.NewStore(cfg.Pipeline.CacheDir, logg)
	if err != nil {
		return nil, false, err
	}
	return store.LoadOrBuild(ctx, fingerprint, func() (*normalize.Snapshot, error) {
		return normalize.Build(games, reviews, completions, opts)
	})
}
