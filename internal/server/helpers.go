package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tradeforge/vtrade/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps service errors onto HTTP status codes:
// validation 400, credentials 401, not found 404, rejected business
// rules 406, quote failures 502, everything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientPosition),
		errors.Is(err, models.ErrInvalidBankAccount),
		errors.Is(err, models.ErrCurrencyMismatch),
		errors.Is(err, models.ErrOwnershipMismatch),
		errors.Is(err, models.ErrSymbolNotTradable),
		errors.Is(err, models.ErrAccountInactive),
		errors.Is(err, models.ErrAmountLimitExceeded),
		errors.Is(err, models.ErrResetNotAllowed):
		WriteError(w, http.StatusNotAcceptable, err.Error())
	case errors.Is(err, models.ErrQuoteUnavailable):
		WriteError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, models.ErrTradeFailed):
		WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		WriteError(w, http.StatusBadRequest, err.Error())
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/portfolios/{id}/detail, calling
// PathParam(r, "/api/portfolios/", "/detail") extracts the {id} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
