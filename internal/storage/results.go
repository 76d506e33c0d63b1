package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"cypar/internal/domain"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// JSONResultStore stores run results in a JSON file at an afs location.
type JSONResultStore struct {
	fs       afs.Service
	location string
}

// NewJSONResultStore returns a ResultStore for location
func NewJSONResultStore(fs afs.Service, location string) *JSONResultStore {
	return &JSONResultStore{fs: fs, location: resolveLocation(location)}
}

// Save writes the full run output, replacing the previous file.
func (s *JSONResultStore) Save(ctx context.Context, output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := s.fs.Upload(ctx, s.location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run output.
func (s *JSONResultStore) Load(ctx context.Context) (*domain.RunOutput, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.location)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}
