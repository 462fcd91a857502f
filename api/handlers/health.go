package handlers

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// HealthCheck probes a single dependency.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	checks  []HealthCheck
	logger  *zap.Logger
	started time.Time
}

// NewHealthHandler creates a health handler with the given checks.
func NewHealthHandler(logger *zap.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		logger:  logger.With(zap.String("component", "health")),
		started: time.Now(),
	}
}

// HandleHealth reports overall health including dependency probes.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	results := make([]CheckResult, 0, len(h.checks))
	healthy := true

	for _, check := range h.checks {
		start := time.Now()
		err := check.Check(ctx)
		result := CheckResult{
			Name:    check.Name(),
			Healthy: err == nil,
			Latency: time.Since(start).String(),
		}
		if err != nil {
			result.Error = err.Error()
			healthy = false
			h.logger.Warn("health check failed",
				zap.String("check", check.Name()),
				zap.Error(err))
		}
		results = append(results, result)
	}

	status := http.StatusOK
	statusText := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "degraded"
	}

	WriteJSON(w, status, Response{
		Success: healthy,
		Data: map[string]any{
			"status": statusText,
			"uptime": time.Since(h.started).String(),
			"checks": results,
		},
		Timestamp: time.Now(),
	})
}

// HandleHealthz is a minimal liveness probe with no dependency checks.
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady reports readiness. Any failing dependency makes the
// service not ready.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ready":  false,
				"reason": check.Name() + ": " + err.Error(),
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ready": true})
}

// HandleVersion reports build information.
func (h *HealthHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}

	WriteSuccess(w, map[string]string{
		"service": "coursegen",
		"version": version,
	})
}
