package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by persistence adapters that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendLister reports scanner backend availability.
type BackendLister interface {
	Backends() map[string]bool
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	storage     Pinger
	storageName string
	scanners    BackendLister
	version     string
	started     time.Time
}

// NewHealthHandler creates a new health handler. storage and scanners may be nil.
func NewHealthHandler(storageName string, storage Pinger, scanners BackendLister, version string) *HealthHandler {
	return &HealthHandler{
		storage:     storage,
		storageName: storageName,
		scanners:    scanners,
		version:     version,
		started:     time.Now(),
	}
}

// Live handles the liveness check (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles the readiness check (can labels be loaded and saved?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.storage.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{
					"storage": "unhealthy: " + err.Error(),
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"storage": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"app":            "labelkit",
		"version":        h.version,
		"storage":        h.storageName,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}
	if h.scanners != nil {
		info["scanners"] = h.scanners.Backends()
	}
	c.JSON(http.StatusOK, info)
}
