package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/GHutch55/anagrams/api/v1/models"
)

// Error details returned to clients
const (
	DetailEmptyInput       = "Input text cannot be empty."
	DetailGenerationFailed = "Anagram generation failed."
	DetailUnexpected       = "An unexpected error occurred."
	DetailBodyTooLarge     = "Request body too large."
	DetailTooManyRequests  = "Too many requests."
)

// SendJSON writes v as a JSON response with the given status code
func SendJSON(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Int("status", statusCode).Msg("Failed to encode response")
	}
}

// SendDetail sends a {"detail": ...} error response
func SendDetail(w http.ResponseWriter, detail interface{}, statusCode int) {
	SendJSON(w, models.DetailResponse{Detail: detail}, statusCode)
}

// SendValidationError sends a 422 response listing the rejected fields
func SendValidationError(w http.ResponseWriter, issues []models.ValidationIssue) {
	SendDetail(w, issues, http.StatusUnprocessableEntity)
}

// TooManyRequests is the rate limiter's response
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	SendDetail(w, DetailTooManyRequests, http.StatusTooManyRequests)
}
