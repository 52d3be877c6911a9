package transport

import (
	"errors"
	"net/http"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/auth/credentials"
	"github.com/hydrolog/hydrolog/pkg/observability"
)

// handleRegister creates a new account. Validation failures, including a
// taken email, come back as field-level 400s.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	if _, err := h.credentials.Register(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.MessageResponse{Message: "User created successfully"})
}

// handleLogin verifies credentials and issues a bearer token. Shape
// problems in the body are a 400; a well-formed pair that does not match
// is a 401 with no hint of which half was wrong.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateLogin(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	user, err := h.credentials.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			WriteAPIError(w, api.NewAuthenticationError("invalid email or password"))
			return
		}
		writeError(w, r, err)
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: signed})
}
