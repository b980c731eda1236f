package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabarita/gabarita-backend/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL: "postgres://u:p@db.internal:5432/gabarita?sslmode=disable",
		MaxDBConns:  8,
		MinDBConns:  2,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(8), poolCfg.MaxConns)
	assert.Equal(t, int32(2), poolCfg.MinConns)
	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.Equal(t, "gabarita", poolCfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "UTC", poolCfg.ConnConfig.RuntimeParams["timezone"])
}

func TestPoolConfig_KeepsURLApplicationNameAndBoundsMinConns(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL: "postgres://u:p@localhost:5432/gabarita?application_name=reports",
		MaxDBConns:  4,
		MinDBConns:  10,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "reports", poolCfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, int32(4), poolCfg.MaxConns)
	assert.Zero(t, poolCfg.MinConns)
}

func TestPoolConfig_BadURL(t *testing.T) {
	_, err := poolConfig(&config.Config{DatabaseURL: "postgres://%zz"})
	assert.ErrorContains(t, err, "parse database URL")
}
