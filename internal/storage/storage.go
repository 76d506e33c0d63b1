package storage

import (
	"context"
	"path/filepath"
	"strings"

	"cypar/internal/config"
	"cypar/internal/domain"
	"cypar/internal/weights"

	"github.com/viant/afs"
)

// WeightStore loads and persists the spec weight table.
//
// Load never fails hard: a missing or corrupt store yields an empty table and
// a *domain.WeightLoadWarning. Save replaces the whole table and reports
// failures as *domain.WeightSaveError.
type WeightStore interface {
	Load(ctx context.Context) (*weights.Table, error)
	Save(ctx context.Context, table *weights.Table) error
	Location() string
}

// ResultStore persists the outcome of the last managed run (e.g. for the failures viewer).
type ResultStore interface {
	Save(ctx context.Context, output *domain.RunOutput) error
	Load(ctx context.Context) (*domain.RunOutput, error)
}

// NewWeightStore returns the SQL store when a DSN is configured and the
// file store otherwise.
func NewWeightStore(cfg *config.Config) (WeightStore, error) {
	if cfg.WeightsDSN != "" {
		return NewSQLStore(cfg.WeightsDSN)
	}
	return NewJSONStore(afs.New(), cfg.GetWeightsLocation()), nil
}

// NewResultStore returns the store of the results file
func NewResultStore(cfg *config.Config) ResultStore {
	return NewJSONResultStore(afs.New(), cfg.GetResultsLocation())
}

// resolveLocation turns a plain path into an absolute one so afs treats it
// as a local file. URLs are returned unchanged.
func resolveLocation(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
