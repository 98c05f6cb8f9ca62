package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any backing store that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]Pinger
}

// NewHealthHandler reports each named dependency as "up", "down" or
// "disabled" (nil pinger).
func NewHealthHandler(serviceName, version string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        deps,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "healthy"
	deps := make(map[string]string, len(names))
	for _, name := range names {
		p := h.deps[name]
		if p == nil {
			deps[name] = "disabled"
			continue
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			deps[name] = "down"
			status = "degraded"
		} else {
			deps[name] = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC(),
		Service:      h.serviceName,
		Version:      h.version,
		Dependencies: deps,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
