package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// =========================================================================
// RequireAuth TESTS
// =========================================================================

// protectedEcho is a handler that reports the userID the middleware put in
// the context.
func protectedEcho(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("UserIDFromContext() not set on a request that passed RequireAuth")
		}
		if userID != wantUserID {
			t.Errorf("userID = %q, want %q", userID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("user-42")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	handler := RequireAuth(ts)(protectedEcho(t, "user-42"))

	req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	ts := newTestTokenService(t)

	called := false
	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("protected handler ran without a session cookie")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.GenerateWithDuration("user-42", -1)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler ran with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/ideas", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUserIDFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() reported a userID on a bare context")
	}
}
