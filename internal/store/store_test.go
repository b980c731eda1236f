package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabarita/gabarita-backend/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.StorageSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "gabarita.db"),
	}

	st, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer st.Close()

	ids, err := st.Questions.ExamIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: "mongo"}, zerolog.Nop())
	assert.ErrorContains(t, err, "mongo")
}
