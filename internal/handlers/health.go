package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"appshelf/internal/contextutil"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	apps               AppLister
	ledger             Pinger
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. ledger may be nil when no ledger is configured.
func NewHealthHandler(apps AppLister, ledger Pinger) *HealthHandler {
	return &HealthHandler{
		apps:               apps,
		ledger:             ledger,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns 200 when the record store is readable and the ledger (if any) answers,
// 503 otherwise.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkStore(checkCtx, logger) {
		checks["store"] = "ok"
	} else {
		checks["store"] = "error"
		issues = append(issues, "store_unreadable")
	}

	if h.ledger != nil {
		if err := h.ledger.PingContext(checkCtx); err != nil {
			logger.WarnContext(ctx, "ledger health check failed", "error", err)
			checks["ledger"] = "error"
			issues = append(issues, "ledger_unavailable")
		} else {
			checks["ledger"] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}

func (h *HealthHandler) checkStore(ctx context.Context, logger *slog.Logger) bool {
	if _, err := h.apps.List(); err != nil {
		logger.WarnContext(ctx, "store health check failed", "error", err)
		return false
	}
	return true
}
