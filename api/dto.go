/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calc package from the external API contract.

NAMING CONVENTION:
  - *DTO: Response items returned to clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

OPERANDS:
  operand1/operand2 are kept raw so each can be parsed on its own and
  reported by name. Accepted: JSON numbers, numeric strings, null or an
  absent field (both mean 0).

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/warp/calc-engine/calc"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalculateRequest is the body of POST /calculate.
type CalculateRequest struct {
	Operation string          `json:"operation"`
	Operand1  json.RawMessage `json:"operand1"`
	Operand2  json.RawMessage `json:"operand2"`
}

// CalculateResponse is returned by /calculate.
type CalculateResponse struct {
	Result  float64  `json:"result"`
	History []string `json:"history"`
}

// HistoryResponse is returned by GET /history.
type HistoryResponse struct {
	History []string    `json:"history"`
	Records []RecordDTO `json:"records,omitempty"`
}

// RecordDTO is one stored calculation, returned with ?detail=true.
type RecordDTO struct {
	ID         int64   `json:"id"`
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	CreatedAt  string  `json:"created_at"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IndexResponse documents the API at GET /api.
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Usage     string            `json:"usage"`
}

// ErrorResponse is the body of every 4xx/5xx.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toRecordDTOs(records []calc.Record) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, r := range records {
		dtos[i] = RecordDTO{
			ID:         r.ID,
			Expression: r.Expression,
			Result:     r.Result,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return dtos
}

// =============================================================================
// OPERAND PARSING
// =============================================================================

var errBadOperand = errors.New("operand is not a finite number")

// parseJSONOperand decodes a raw operand. Absent and null mean 0.
func parseJSONOperand(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, errBadOperand
		}
		return parseStringOperand(str)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errBadOperand
	}
	return v, nil
}

// parseQueryOperand parses a query parameter. Absent means 0, but a present
// empty value is rejected.
func parseQueryOperand(values map[string][]string, key string) (float64, error) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return 0, nil
	}
	return parseStringOperand(vs[0])
}

func parseStringOperand(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadOperand
	}
	return v, nil
}
