package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/auth"
	"github.com/hydrolog/hydrolog/pkg/auth/credentials"
	"github.com/hydrolog/hydrolog/pkg/auth/token"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// latestMeasurementCount is how many readings ride along on a system
// retrieval.
const latestMeasurementCount = 10

// Handler serves the hydrolog HTTP API.
type Handler struct {
	store       storage.Store
	credentials *credentials.Store
	tokens      *token.Service
}

// NewHandler creates the API handler.
func NewHandler(store storage.Store, creds *credentials.Store, tokens *token.Service) *Handler {
	return &Handler{
		store:       store,
		credentials: creds,
		tokens:      tokens,
	}
}

// Routes returns the ServeMux with all API routes registered. Paths
// require their trailing slash exactly; method mismatches get the mux's
// 405.
func (h *Handler) Routes(metricsEnabled bool, metricsPath string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register/{$}", h.handleRegister)
	mux.HandleFunc("POST /login/{$}", h.handleLogin)

	mux.HandleFunc("POST /systems/{$}", h.handleCreateSystem)
	mux.HandleFunc("GET /systems/{$}", h.handleListSystems)
	mux.HandleFunc("GET /systems/{id}/{$}", h.handleGetSystem)
	mux.HandleFunc("PUT /systems/{id}/{$}", h.handleUpdateSystem)
	mux.HandleFunc("DELETE /systems/{id}/{$}", h.handleDeleteSystem)

	mux.HandleFunc("POST /systems/{id}/measurements/{$}", h.handleCreateMeasurement)
	mux.HandleFunc("GET /systems/{id}/measurements/{$}", h.handleListMeasurements)

	mux.HandleFunc("GET /healthz", h.handleHealth)
	if metricsEnabled {
		mux.Handle("GET "+metricsPath, promhttp.Handler())
	}

	return mux
}

// handleHealth reports liveness and store reachability.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes a request body into dst, mapping malformed or
// oversized bodies to an invalid_request error.
func decodeJSON(r *http.Request, dst any) *api.APIError {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return api.NewInvalidRequestError("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return api.NewInvalidRequestError("request body is required")
		}
		return api.NewInvalidRequestError("malformed JSON in request body")
	}
	return nil
}

// requireIdentity extracts the authenticated caller or writes a 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, err := auth.RequireIdentity(r.Context())
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteAPIError(w, api.NewAuthenticationError("authentication required"))
		return nil, false
	}
	return identity, true
}

// pathID parses the {id} path segment. A non-numeric id addresses
// nothing, so it reports not-found rather than a validation failure.
func pathID(r *http.Request) (int64, *api.APIError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, api.NewNotFoundError("resource not found")
	}
	return id, nil
}
