package auth

import (
	"context"
	"net/http"
)

// contextKey is unexported so only this package can read or write the userID
// value — a plain string key could be shadowed by any package that knows it.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the HttpOnly session cookie. HttpOnly keeps the token out of
// reach of page JavaScript, so an XSS can't exfiltrate it.
const CookieName = "token"

// RequireAuth enforces authentication on protected routes: it reads the JWT
// from the session cookie, validates it, and stores the userID in the
// request context. Missing or invalid token → 401, chain stops.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID. Returns
// ("", false) when the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
