package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/upb/blog-api/utils"
	"go.uber.org/zap"
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck reports whether one dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// HealthResponse is the body of /healthz and /readyz, wrapped in {"data": ...}
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type healthEnvelope struct {
	Data HealthResponse `json:"data"`
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks map[string]ReadinessCheck
	logger *zap.Logger
}

// NewHealthHandler creates a HealthHandler. A nil check marks its dependency
// as not configured, which keeps the service unready.
func NewHealthHandler(checks map[string]ReadinessCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz; it only proves the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// HandleReadiness handles GET /readyz by running every registered check
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "healthy", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		check := h.checks[name]
		if check == nil {
			resp.Checks[name] = "not_configured"
			resp.Status = "unhealthy"
			continue
		}
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "unhealthy"
			resp.Status = "unhealthy"
			continue
		}
		resp.Checks[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	h.write(w, status, resp)
}

func (h *HealthHandler) write(w http.ResponseWriter, status int, resp HealthResponse) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if err := utils.WriteJSON(w, status, healthEnvelope{Data: resp}); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}
