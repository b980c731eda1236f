package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthHandler) healthStatus {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data healthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestHealth_CacheDisabled(t *testing.T) {
	s := serveHealth(t, NewHealthHandler(nil, "sqlite", zerolog.Nop()))
	assert.Equal(t, "ok", s.Status)
	assert.Equal(t, "disabled", s.Cache)
	assert.Equal(t, "sqlite", s.Storage)
}

func TestHealth_CacheUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()

	s := serveHealth(t, NewHealthHandler(rdb, "postgres", zerolog.Nop()))
	assert.Equal(t, "degraded", s.Status)
	assert.Equal(t, "unreachable", s.Cache)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 5s", formatDuration(5*time.Second))
	assert.Equal(t, "2h 3m 0s", formatDuration(2*time.Hour+3*time.Minute))
	assert.Equal(t, "1d 1h 0m 0s", formatDuration(25*time.Hour))
}
