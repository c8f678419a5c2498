// ABOUTME: JSON error bodies written by middleware before a handler runs
// ABOUTME: Same {"error","code"} shape the handlers use, plus retry_after for 429s

package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// rateLimitResponse is the 429 body. Retry-After carries the same value.
type rateLimitResponse struct {
	models.ErrorResponse
	RetryAfter int `json:"retry_after"`
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeBody(w, code, models.ErrorResponse{Error: message, Code: code})
}

func writeRateLimited(w http.ResponseWriter, retrySeconds int) {
	w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
	writeBody(w, http.StatusTooManyRequests, rateLimitResponse{
		ErrorResponse: models.ErrorResponse{Error: "Rate limit exceeded", Code: http.StatusTooManyRequests},
		RetryAfter:    retrySeconds,
	})
}

func writeBody(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
