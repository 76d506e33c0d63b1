package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"cypar/internal/domain"
	"cypar/internal/weights"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// JSONStore keeps the weight table in a JSON document at an afs location.
type JSONStore struct {
	fs       afs.Service
	location string
}

// NewJSONStore returns a store reading and writing location, which may be a
// local path or any URL supported by afs.
func NewJSONStore(fs afs.Service, location string) *JSONStore {
	return &JSONStore{fs: fs, location: resolveLocation(location)}
}

// Location returns the resolved location of the weight file
func (s *JSONStore) Location() string {
	return s.location
}

// Load reads the weight table. Any problem results in an empty table and a
// *domain.WeightLoadWarning.
func (s *JSONStore) Load(ctx context.Context) (*weights.Table, error) {
	exists, err := s.fs.Exists(ctx, s.location)
	if err != nil {
		return weights.NewTable(), s.warn(err)
	}
	if !exists {
		return weights.NewTable(), s.warn(domain.ErrWeightsMissing)
	}

	data, err := s.fs.DownloadWithURL(ctx, s.location)
	if err != nil {
		return weights.NewTable(), s.warn(fmt.Errorf("read weights: %w", err))
	}

	table := weights.NewTable()
	if err := json.Unmarshal(data, table); err != nil {
		return weights.NewTable(), s.warn(fmt.Errorf("parse weights: %w", err))
	}
	return table, nil
}

// Save overwrites the weight file with table
func (s *JSONStore) Save(ctx context.Context, table *weights.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return &domain.WeightSaveError{Location: s.location, Err: fmt.Errorf("marshal weights: %w", err)}
	}
	if err := s.fs.Upload(ctx, s.location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return &domain.WeightSaveError{Location: s.location, Err: err}
	}
	return nil
}

func (s *JSONStore) warn(err error) error {
	return &domain.WeightLoadWarning{Location: s.location, Err: err}
}
