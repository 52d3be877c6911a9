package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hydrolog/hydrolog/pkg/api"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mk("a"), mk("b"), mk("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"a", "b", "c", "handler"}
	if len(order) != len(want) {
		t.Fatalf("execution order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("execution order = %v, want %v", order, want)
		}
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("no request ID in context")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header X-Request-ID = %q, context has %q", got, seen)
	}
}

func TestRequestIDHonorsHeader(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "client-supplied-id")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen != "client-supplied-id" {
		t.Errorf("request ID = %q, want client-supplied-id", seen)
	}
}

func TestRecoveryMasksPanic(t *testing.T) {
	handler := Recovery()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("sensitive internal detail")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "sensitive") {
		t.Errorf("panic detail leaked to client: %s", w.Body)
	}

	var resp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if resp.Error.Type != api.ErrorTypeServerError {
		t.Errorf("error type = %q, want %q", resp.Error.Type, api.ErrorTypeServerError)
	}
}

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		err  *api.APIError
		want int
	}{
		{api.NewInvalidRequestError("bad"), http.StatusBadRequest},
		{api.NewAuthenticationError("who?"), http.StatusUnauthorized},
		{api.NewForbiddenError("no"), http.StatusForbidden},
		{api.NewNotFoundError("gone"), http.StatusNotFound},
		{api.NewServerError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatusFromError(tt.err); got != tt.want {
			t.Errorf("HTTPStatusFromError(%s) = %d, want %d", tt.err.Type, got, tt.want)
		}
	}
}
