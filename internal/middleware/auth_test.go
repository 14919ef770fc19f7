package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"blogicum/internal/session"
)

// okHandler is a trivial downstream handler for middleware tests.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// withSession injects session data into a request context the way
// LoadSession would.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, data))
}

// TestRequireAuth_NoSession_RedirectsToLogin verifies the login gate.
func TestRequireAuth_NoSession_RedirectsToLogin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
	rec := httptest.NewRecorder()

	RequireAuth(okHandler).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login/" {
		t.Errorf("redirect to %q, want /auth/login/", loc)
	}
}

// TestRequireAuth_WithSession_PassesThrough verifies authenticated requests
// reach the handler.
func TestRequireAuth_WithSession_PassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
	req = withSession(req, &session.Data{UserID: uuid.New(), Username: "alice", TwoFADone: true})
	rec := httptest.NewRecorder()

	RequireAuth(okHandler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestRequire2FA verifies the pending-2FA redirect and the pass-through
// for completed sessions.
func TestRequire2FA(t *testing.T) {
	t.Run("pending 2fa redirects to verify", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
		req = withSession(req, &session.Data{UserID: uuid.New(), Username: "alice", TwoFADone: false})
		rec := httptest.NewRecorder()

		Require2FA(okHandler).ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != "/auth/2fa/verify/" {
			t.Errorf("redirect to %q, want /auth/2fa/verify/", loc)
		}
	})

	t.Run("completed session passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
		req = withSession(req, &session.Data{UserID: uuid.New(), Username: "alice", TwoFADone: true})
		rec := httptest.NewRecorder()

		Require2FA(okHandler).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

// TestSessionFromCtx verifies context round-tripping.
func TestSessionFromCtx(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("SessionFromCtx on empty context = %+v, want nil", got)
	}

	data := &session.Data{UserID: uuid.New(), Username: "bob"}
	ctx := context.WithValue(context.Background(), SessionKey, data)
	if got := SessionFromCtx(ctx); got != data {
		t.Error("SessionFromCtx did not return the stored session")
	}
}
