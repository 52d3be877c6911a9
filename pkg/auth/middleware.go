package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hydrolog/hydrolog/pkg/api"
)

// Middleware creates HTTP middleware from an Authenticator. Requests on a
// bypass path skip authentication entirely. A No vote is rejected with a
// 401 before reaching any handler; an Abstain proceeds without an
// identity in the context; a Yes attaches the identity and raw claims for
// the lifetime of this request only.
func Middleware(authn Authenticator, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := authn.Authenticate(r.Context(), r)

			switch result.Decision {
			case No:
				slog.Warn("authentication rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				writeUnauthorized(w)
				return

			case Abstain:
				next.ServeHTTP(w, r)
				return
			}

			if result.Identity == nil || result.Identity.UserID == 0 {
				slog.Error("authenticator returned Yes without a subject")
				writeUnauthorized(w)
				return
			}

			slog.Debug("authentication succeeded",
				"user_id", result.Identity.UserID,
				"path", r.URL.Path,
			)

			ctx := SetIdentity(r.Context(), result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized emits the fixed 401 body used for rejected credentials.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: api.NewAuthenticationError("invalid authentication credentials"),
	})
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/healthz", "/metrics"}
