package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
	"github.com/cognicore/ingredo/pkg/ingredo/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "scans.db"))
		require.NoError(t, err)
		return s
	})
}

func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scans.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	saved, err := s.SaveScan(ctx, store.NewScan("Ingredients: rice", storetest.SampleResult(diet.Vegan, classify.Safe)))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening runs the schema again and keeps the data.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetScan(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ingredients: rice", got.Transcript)
}

func TestOpenBadPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "scans.db"))
	assert.Error(t, err)
}
