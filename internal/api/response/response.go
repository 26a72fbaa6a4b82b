// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON and HTML responses and maps service errors to
// standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional: validation failures carry a field -> message map,
// calendar violations a QuarterNotReachedDetails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// QuarterNotReachedDetails tells the client which quarter to redirect to.
type QuarterNotReachedDetails struct {
	Requested            string `json:"requested"`
	LatestAllowedQuarter string `json:"latestAllowedQuarter"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondHTML sends a rendered page.
func RespondHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("failed to write HTML response: %v", err)
	}
}

// RespondError sends a structured error response with the given status code.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidMonth.Error(), err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// FromError maps a service error to its status code and error envelope.
// fallback is the message for errors without a more specific mapping (500).
func FromError(err error, fallback string) (int, ErrorResponse) {
	var vErr *validation.Error
	var qErr *apperrors.QuarterNotReachedError

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: vErr.Fields}
	case errors.As(err, &qErr):
		return http.StatusConflict, ErrorResponse{
			Error: apperrors.ErrQuarterNotReached.Error(),
			Details: QuarterNotReachedDetails{
				Requested:            calendar.FormatYearMonth(qErr.Requested),
				LatestAllowedQuarter: calendar.FormatYearMonth(qErr.Latest),
			},
		}
	case errors.Is(err, apperrors.ErrAssetNotFound):
		return http.StatusNotFound, ErrorResponse{Error: apperrors.ErrAssetNotFound.Error(), Details: err.Error()}
	case errors.Is(err, apperrors.ErrSecureNoteNotSet):
		return http.StatusNotFound, ErrorResponse{Error: apperrors.ErrSecureNoteNotSet.Error(), Details: err.Error()}
	case errors.Is(err, apperrors.ErrSecureNoteKeyMissing):
		return http.StatusServiceUnavailable, ErrorResponse{Error: apperrors.ErrSecureNoteKeyMissing.Error(), Details: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()}
	}
}

// RespondServiceError sends the error response FromError selects for err.
func RespondServiceError(w http.ResponseWriter, err error, fallback string) {
	status, body := FromError(err, fallback)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", fallback, err)
	}
	RespondJSON(w, status, body)
}
