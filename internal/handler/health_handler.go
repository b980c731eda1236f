package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/response"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports liveness plus the state of the optional cache.
type HealthHandler struct {
	rdb       *redis.Client
	storage   string
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a HealthHandler. rdb may be nil when the cache is disabled.
func NewHealthHandler(rdb *redis.Client, storage string, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		rdb:       rdb,
		storage:   storage,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

type healthStatus struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Storage    string `json:"storage"`
	Cache      string `json:"cache"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
}

// Health godoc
// GET /health
// A failing cache only degrades the service: reads fall back to the store.
func (h *HealthHandler) Health(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := healthStatus{
		Status:     "ok",
		Uptime:     formatDuration(time.Since(h.startTime)),
		Storage:    h.storage,
		Cache:      "disabled",
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
	}

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			s.Status = "degraded"
			s.Cache = "unreachable"
		} else {
			s.Cache = "ok"
		}
	}

	response.Success(c, http.StatusOK, s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
