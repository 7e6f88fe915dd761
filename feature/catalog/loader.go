package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"game-warehouse/core/storage"
	"game-warehouse/feature/catalog/models"
	"game-warehouse/feature/normalize"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Loader reads raw dataset files from local disk or object storage.
type Loader struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewLoader creates a dataset loader. The storage client may be nil, in
// which case only local files can be read.
func NewLoader(client storage.Client, bucket string, logger *zap.Logger) *Loader {
	return &Loader{client: client, bucket: bucket, logger: logger}
}

// LoadResult describes one loaded dataset: the source identity for cache
// fingerprinting and the number of rows dropped as malformed.
type LoadResult struct {
	Source    normalize.SourceInfo
	Malformed int
}

// LoadGames reads and parses the games dataset.
func (l *Loader) LoadGames(ctx context.Context, source string) ([]models.RawGame, LoadResult, error) {
	raw, info, err := l.read(ctx, source)
	if err != nil {
		return nil, LoadResult{}, err
	}
	rows, header, err := decodeCSV(raw)
	if err != nil {
		return nil, LoadResult{}, fmt.Errorf("decoding games csv: %w", err)
	}

	games := make([]models.RawGame, 0, len(rows))
	malformed := 0
	for _, row := range rows {
		g, ok := parseGameRow(header, row)
		if !ok {
			malformed++
			continue
		}
		games = append(games, g)
	}
	l.logger.Info("loaded games dataset",
		zap.String("source", source),
		zap.Int("rows", len(games)),
		zap.Int("malformed", malformed))
	return games, LoadResult{Source: info, Malformed: malformed}, nil
}

// LoadReviews reads and parses the reviews dataset, flattening the
// dotted author.* columns.
func (l *Loader) LoadReviews(ctx context.Context, source string) ([]models.RawReview, LoadResult, error) {
	raw, info, err := l.read(ctx, source)
	if err != nil {
		return nil, LoadResult{}, err
	}
	rows, header, err := decodeCSV(raw)
	if err != nil {
		return nil, LoadResult{}, fmt.Errorf("decoding reviews csv: %w", err)
	}

	reviews := make([]models.RawReview, 0, len(rows))
	malformed := 0
	for _, row := range rows {
		r, ok := parseReviewRow(header, row)
		if !ok {
			malformed++
			continue
		}
		reviews = append(reviews, r)
	}
	l.logger.Info("loaded reviews dataset",
		zap.String("source", source),
		zap.Int("rows", len(reviews)),
		zap.Int("malformed", malformed))
	return reviews, LoadResult{Source: info, Malformed: malformed}, nil
}

// LoadCompletions reads and parses the completion-time dataset.
func (l *Loader) LoadCompletions(ctx context.Context, source string) ([]models.RawCompletionRecord, LoadResult, error) {
	raw, info, err := l.read(ctx, source)
	if err != nil {
		return nil, LoadResult{}, err
	}
	rows, header, err := decodeCSV(raw)
	if err != nil {
		return nil, LoadResult{}, fmt.Errorf("decoding completions csv: %w", err)
	}

	records := make([]models.RawCompletionRecord, 0, len(rows))
	malformed := 0
	for _, row := range rows {
		c, ok := parseCompletionRow(header, row)
		if !ok {
			malformed++
			continue
		}
		records = append(records, c)
	}
	l.logger.Info("loaded completion dataset",
		zap.String("source", source),
		zap.Int("rows", len(records)),
		zap.Int("malformed", malformed))
	return records, LoadResult{Source: info, Malformed: malformed}, nil
}

// read fetches a source file, preferring local disk and falling back to
// the bucket, and returns its bytes plus the fingerprint identity.
func (l *Loader) read(ctx context.Context, source string) ([]byte, normalize.SourceInfo, error) {
	raw, err := os.ReadFile(source)
	if err != nil {
		if !os.IsNotExist(err) || l.client == nil {
			return nil, normalize.SourceInfo{}, fmt.Errorf("reading dataset %s: %w", source, err)
		}
		obj, getErr := l.client.GetObject(ctx, l.bucket, source, minio.GetObjectOptions{})
		if getErr != nil {
			return nil, normalize.SourceInfo{}, fmt.Errorf("fetching dataset %s from bucket %s: %w", source, l.bucket, getErr)
		}
		defer obj.Close()
		raw, err = io.ReadAll(obj)
		if err != nil {
			return nil, normalize.SourceInfo{}, fmt.Errorf("downloading dataset %s: %w", source, err)
		}
	}

	sum := sha256.Sum256(raw)
	info := normalize.SourceInfo{
		Name:   filepath.Base(source),
		Size:   int64(len(raw)),
		SHA256: hex.EncodeToString(sum[:]),
	}
	return raw, info, nil
}

// decodeCSV splits a CSV file into a header index and data rows. Rows
// with a deviating field count are surfaced as-is; per-row validation
// happens in the parse functions.
func decodeCSV(raw []byte) ([][]string, map[string]int, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, map[string]int{}, nil
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[name] = i
	}
	return all[1:], header, nil
}
