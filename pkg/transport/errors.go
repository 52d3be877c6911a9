package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP
// status code.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case api.ErrorTypeForbidden:
		return http.StatusForbidden
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// writeError translates any handler error into a response. APIError values
// pass through with their own status; storage sentinels map to their
// statuses; everything else is logged and masked as a fixed 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		WriteAPIError(w, apiErr)
	case errors.Is(err, storage.ErrNotFound):
		WriteAPIError(w, api.NewNotFoundError("resource not found"))
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		WriteAPIError(w, api.NewServerError("internal server error"))
	}
}

// writeJSON writes a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
