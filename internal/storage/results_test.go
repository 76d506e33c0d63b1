package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"cypar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestJSONResultStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewJSONResultStore(afs.New(), "mem://localhost/results/parallel-results.json")

	output := &domain.RunOutput{
		Meta: domain.RunMeta{RunID: "run-1", Workers: 2, Tests: 6, Failures: 1},
		Details: []domain.TestFailure{
			{Title: "rejects bad password", Error: "AssertionError", Stack: "at login.js:10", Worker: 1},
		},
	}
	require.NoError(t, store.Save(ctx, output))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, output, loaded)
}

func TestJSONResultStore_LoadMissing(t *testing.T) {
	store := NewJSONResultStore(afs.New(), "mem://localhost/none/parallel-results.json")
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
