package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hydrolog/hydrolog/pkg/api"
)

// stubAuthenticator returns a fixed result for every request.
type stubAuthenticator struct {
	result Result
}

func (s *stubAuthenticator) Authenticate(_ context.Context, _ *http.Request) Result {
	return s.result
}

// identityRecorder records whether an identity was present when the handler ran.
type identityRecorder struct {
	called   bool
	identity *Identity
}

func (p *identityRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareYes(t *testing.T) {
	authn := &stubAuthenticator{result: Result{
		Decision: Yes,
		Identity: &Identity{UserID: 7, Email: "alice@example.com"},
	}}
	rec := &identityRecorder{}
	handler := Middleware(authn, nil)(rec.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/systems/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !rec.called {
		t.Fatal("handler not reached")
	}
	if rec.identity == nil || rec.identity.UserID != 7 {
		t.Errorf("identity in context = %+v, want UserID 7", rec.identity)
	}
}

func TestMiddlewareNo(t *testing.T) {
	authn := &stubAuthenticator{result: Result{
		Decision: No,
		Err:      errors.New("signature mismatch"),
	}}
	rec := &identityRecorder{}
	handler := Middleware(authn, nil)(rec.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/systems/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if rec.called {
		t.Error("handler reached despite rejection")
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", got)
	}

	var body api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error.Type != api.ErrorTypeAuthentication {
		t.Errorf("error type = %q, want %q", body.Error.Type, api.ErrorTypeAuthentication)
	}
}

func TestMiddlewareAbstain(t *testing.T) {
	authn := &stubAuthenticator{result: Result{Decision: Abstain}}
	rec := &identityRecorder{}
	handler := Middleware(authn, nil)(rec.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/systems/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !rec.called {
		t.Fatal("handler not reached")
	}
	if rec.identity != nil {
		t.Errorf("anonymous request carried identity %+v", rec.identity)
	}
}

func TestMiddlewareYesWithoutSubject(t *testing.T) {
	// A Yes vote with no usable identity must not pass through.
	authn := &stubAuthenticator{result: Result{Decision: Yes}}
	rec := &identityRecorder{}
	handler := Middleware(authn, nil)(rec.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/systems/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if rec.called {
		t.Error("handler reached without a subject")
	}
}

func TestMiddlewareBypass(t *testing.T) {
	// The authenticator must not even run on bypass paths.
	authn := &stubAuthenticator{result: Result{Decision: No, Err: errors.New("should not matter")}}
	rec := &identityRecorder{}
	handler := Middleware(authn, DefaultBypassEndpoints)(rec.handler())

	for _, path := range DefaultBypassEndpoints {
		rec.called = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, w.Code)
		}
		if !rec.called {
			t.Errorf("%s: handler not reached on bypass path", path)
		}
	}
}

func TestIdentityFromContextMissing(t *testing.T) {
	if identity := IdentityFromContext(context.Background()); identity != nil {
		t.Errorf("IdentityFromContext on empty context = %+v, want nil", identity)
	}
}
