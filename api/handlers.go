/*
handlers.go - HTTP API handlers for the calculator

PURPOSE:
  Exposes calc.Service via a small JSON API. Handles HTTP request/response,
  JSON serialization, and delegates to the service.

ENDPOINTS:
  Calculations:
    POST   /calculate        {operation, operand1, operand2} in the body
    GET    /calculate        same fields as query parameters

  History:
    GET    /history          ?limit=N (default 50), ?detail=true for records
    POST   /clear_history    Delete all history

  Meta:
    GET    /health           Static health document
    GET    /api              API index
    GET    /live, /ready     Liveness/readiness (healthcheck)
    GET    /metrics          Prometheus

REQUEST FLOW (/calculate):
  1. Parse operation and operands (missing operands are 0)
  2. Evaluate; client errors return 400 and never touch the store
  3. Append the expression to history (failure is logged, not returned)
  4. Return {result, history} with the 10 most recent expressions

ERROR HANDLING:
  Errors are returned as JSON {error, details?}:
  - 400: Invalid operation, division by zero, bad operands or body
  - 500: History store failures on /history and /clear_history

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"github.com/warp/calc-engine/calc"
	"github.com/warp/calc-engine/config"
)

// APIVersion is reported by GET /api.
const APIVersion = "1.0.0"

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("Invalid request body")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *calc.Service
	Log     *zap.Logger
	Metrics *Metrics
	Config  config.ServerConfig

	health healthcheck.Handler
}

// NewHandler creates a handler. metrics may be nil, which disables /metrics.
func NewHandler(svc *calc.Service, logger *zap.Logger, cfg config.ServerConfig, metrics *Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		Service: svc,
		Log:     logger,
		Metrics: metrics,
		Config:  cfg,
		health:  healthcheck.NewHandler(),
	}

	h.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	h.health.AddReadinessCheck("history-store", h.checkStore)
	return h
}

func (h *Handler) checkStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return h.Service.Ping(ctx)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate evaluates one expression.
// POST /calculate, GET /calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	operation, a, b, err := parseCalculateRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	c, err := h.Service.Calculate(r.Context(), operation, a, b)
	if err != nil {
		if calc.IsClientError(err) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Log.Error("calculation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, CalculateResponse{
		Result:  c.Result,
		History: c.History,
	})
}

func parseCalculateRequest(w http.ResponseWriter, r *http.Request) (string, float64, float64, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		a, err := parseQueryOperand(q, "operand1")
		if err != nil {
			return "", 0, 0, invalidOperand("operand1")
		}
		b, err := parseQueryOperand(q, "operand2")
		if err != nil {
			return "", 0, 0, invalidOperand("operand2")
		}
		return q.Get("operation"), a, b, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", 0, 0, errInvalidBody
	}

	var req CalculateRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return "", 0, 0, errInvalidBody
		}
	}

	a, err := parseJSONOperand(req.Operand1)
	if err != nil {
		return "", 0, 0, invalidOperand("operand1")
	}
	b, err := parseJSONOperand(req.Operand2)
	if err != nil {
		return "", 0, 0, invalidOperand("operand2")
	}
	return req.Operation, a, b, nil
}

func invalidOperand(name string) error {
	return fmt.Errorf("%w: %s", calc.ErrInvalidOperand, name)
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// GetHistory returns recent expressions, newest first.
// GET /history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.Config.HistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		limit = min(n, h.Config.MaxHistoryLimit)
	}

	if detail, _ := strconv.ParseBool(r.URL.Query().Get("detail")); detail {
		records, err := h.Service.Records(r.Context(), limit)
		if err != nil {
			h.Log.Error("failed to load history records", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to load history", err)
			return
		}
		writeJSON(w, http.StatusOK, HistoryResponse{
			History: calc.Expressions(records),
			Records: toRecordDTOs(records),
		})
		return
	}

	history, err := h.Service.History(r.Context(), limit)
	if err != nil {
		h.Log.Error("failed to load history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{History: history})
}

// ClearHistory deletes all history.
// POST /clear_history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearHistory(r.Context()); err != nil {
		h.Log.Error("failed to clear history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to clear history", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "History cleared successfully"})
}

// =============================================================================
// META HANDLERS
// =============================================================================

// Health always reports healthy; use /ready for a store check.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "Calculator API is running",
	})
}

// Index documents the API.
// GET /api
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{
		Message: "Simple Calculator API",
		Version: APIVersion,
		Endpoints: map[string]string{
			"POST /calculate":     "Perform calculations",
			"GET /history":        "Get calculation history",
			"POST /clear_history": "Clear calculation history",
			"GET /health":         "Health check",
			"GET /api":            "API documentation",
			"GET /live":           "Liveness probe",
			"GET /ready":          "Readiness probe",
			"GET /metrics":        "Prometheus metrics",
		},
		Usage: "Send POST requests to /calculate with operation, operand1, operand2",
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
