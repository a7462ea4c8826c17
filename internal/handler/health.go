package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/storefront/internal/logger"
)

const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"

	// ReadinessTimeout bounds one readiness probe across all checks
	ReadinessTimeout = 2 * time.Second

	LogMsgReadinessFailed = "Readiness check failed"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Pinger is implemented by storage backends that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealthz reports that the process is serving
// @Summary Liveness check
// @Description Returns OK while the process is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{
			Status: HealthStatusOK,
			Uptime: time.Since(started).Truncate(time.Second).String(),
		})
	}
}

// HandleReadyz pings every named dependency and answers 503 if any fails
// @Summary Readiness check
// @Description Returns OK when every backing store answers
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: HealthStatusOK, Checks: make(map[string]string, len(checks))}
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				logger.FromContext(ctx).Error(LogMsgReadinessFailed, "check", name, "error", err)
				resp.Status = HealthStatusUnavailable
				resp.Checks[name] = HealthStatusUnavailable
				continue
			}
			resp.Checks[name] = HealthStatusOK
		}

		status := http.StatusOK
		if resp.Status != HealthStatusOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, status, resp)
	}
}
