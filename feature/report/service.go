package report

import (
	"game-warehouse/feature/normalize"

	"go.uber.org/zap"
)

// Service serves read-only views over the most recently built snapshot.
type Service struct {
	store  *normalize.Store
	logger *zap.Logger
}

// NewService creates a new report service.
func NewService(store *normalize.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Summary describes one cached snapshot without its row data.
type Summary struct {
	Fingerprint string            `json:"fingerprint"`
	Options     normalize.Options `json:"options"`
	Report      normalize.Report  `json:"report"`
	TableCounts map[string]int    `json:"table_counts"`
}

// Summary loads the latest snapshot and reduces it to counts.
func (s *Service) Summary() (*Summary, error) {
	snap, err := s.store.LoadLatest()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Fingerprint: snap.Fingerprint,
		Options:     snap.Options,
		Report:      snap.Report,
		TableCounts: snap.TableCounts(),
	}, nil
}

// Dimension returns the named dimension table from the latest snapshot.
// The bool result is false when the name is unknown.
func (s *Service) Dimension(name string) (interface{}, bool, error) {
	snap, err := s.store.LoadLatest()
	if err != nil {
		return nil, false, err
	}
	switch name {
	case "developers":
		return snap.Developers, true, nil
	case "publishers":
		return snap.Publishers, true, nil
	case "genres":
		return snap.Genres, true, nil
	case "categories":
		return snap.Categories, true, nil
	case "tags":
		return snap.Tags, true, nil
	default:
		return nil, false, nil
	}
}
