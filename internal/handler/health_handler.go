package handler

import (
	"context"
	"net/http"
	"time"

	"mediapost/internal/middleware"

	"github.com/gin-gonic/gin"
)

const serviceName = "Post Service"

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	postgres    CheckFunc
	blobstore   CheckFunc
	version     string
	environment string
	startedAt   time.Time
}

func NewHealthHandler(postgres, blobstore CheckFunc, version, environment string) *HealthHandler {
	return &HealthHandler{
		postgres:    postgres,
		blobstore:   blobstore,
		version:     version,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// Health handles GET /health. Postgres being down makes the service unavailable;
// a blob store outage only degrades it.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	pg := probe(ctx, h.postgres)
	blobs := probe(ctx, h.blobstore)

	status, code := "OK", http.StatusOK
	switch {
	case pg != "connected":
		status, code = "UNAVAILABLE", http.StatusServiceUnavailable
	case blobs != "connected":
		status = "DEGRADED"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    time.Since(h.startedAt).Seconds(),
		"requestId": middleware.RequestID(c),
		"database": gin.H{
			"postgres":  pg,
			"blobstore": blobs,
		},
	})
}

// Status handles GET /api/status.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     serviceName,
		"version":     h.version,
		"environment": h.environment,
		"requestId":   middleware.RequestID(c),
	})
}

func probe(ctx context.Context, check CheckFunc) string {
	if check == nil {
		return "unknown"
	}
	if err := check(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
