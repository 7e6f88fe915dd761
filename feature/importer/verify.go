package importer

import (
	"context"
	"fmt"

	"game-warehouse/feature/catalog/models"

	"go.uber.org/zap"
)

// DimensionSource is any engine that can serve dimension rows back. All
// three importers implement it.
type DimensionSource interface {
	Engine() string
	FirstDevelopers(ctx context.Context, n int) ([]models.Developer, error)
}

// Mismatch records one disagreement between two engines.
type Mismatch struct {
	Engine    string `json:"engine"`
	Reference string `json:"reference"`
	Detail    string `json:"detail"`
}

// VerifyResult is the outcome of one cross-engine ID comparison.
type VerifyResult struct {
	SampleSize int        `json:"sample_size"`
	Engines    []string   `json:"engines"`
	Mismatches []Mismatch `json:"mismatches"`
}

// OK reports whether every engine agreed on the sample.
func (v *VerifyResult) OK() bool {
	return len(v.Mismatches) == 0
}

// VerifyDimensionIDs compares the first n developer rows, ordered by ID,
// across all given engines. Because surrogate IDs are a pure function of
// the input names, every engine that imported the same snapshot must
// return byte-identical (id, name) pairs. The first source is the
// reference; each other source is compared against it.
func VerifyDimensionIDs(ctx context.Context, logger *zap.Logger, sources []DimensionSource, n int) (*VerifyResult, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("verification needs at least two engines, got %d", len(sources))
	}
	res := &VerifyResult{SampleSize: n}
	for _, s := range sources {
		res.Engines = append(res.Engines, s.Engine())
	}

	ref := sources[0]
	want, err := ref.FirstDevelopers(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Engine(), err)
	}

	for _, s := range sources[1:] {
		got, err := s.FirstDevelopers(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Engine(), err)
		}
		res.Mismatches = append(res.Mismatches, compareDevelopers(ref.Engine(), s.Engine(), want, got)...)
	}

	if res.OK() {
		logger.Info("dimension ids agree across engines",
			zap.Strings("engines", res.Engines),
			zap.Int("sample_size", n))
	} else {
		logger.Warn("dimension id mismatch",
			zap.Strings("engines", res.Engines),
			zap.Int("mismatches", len(res.Mismatches)))
	}
	return res, nil
}

func compareDevelopers(refEngine, engine string, want, got []models.Developer) []Mismatch {
	var out []Mismatch
	if len(want) != len(got) {
		out = append(out, Mismatch{
			Engine:    engine,
			Reference: refEngine,
			Detail:    fmt.Sprintf("row count: got %d, reference has %d", len(got), len(want)),
		})
	}
	limit := len(want)
	if len(got) < limit {
		limit = len(got)
	}
	for i := 0; i < limit; i++ {
		if want[i].ID != got[i].ID || want[i].Name != got[i].Name {
			out = append(out, Mismatch{
				Engine:    engine,
				Reference: refEngine,
				Detail: fmt.Sprintf("row %d: got (%d, %q), reference has (%d, %q)",
					i, got[i].ID, got[i].Name, want[i].ID, want[i].Name),
			})
		}
	}
	return out
}
