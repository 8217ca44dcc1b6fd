package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/vitaltrack/internal/model"
)

// contextKey keeps this package's context values private to it.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the cookie that carries the token for browser clients.
const CookieName = "token"

// OptionalAuth resolves the caller's identity but never rejects a request.
//
// A valid token puts its user id in the context. A missing, expired or
// forged token leaves the context empty, and UserIDFromContext then reports
// the guest. Anonymous use of the tracker depends on this.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && !model.IsGuest(userID) {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that do not carry a valid token for a real
// account. Only routes that make no sense for the guest use it.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil || model.IsGuest(userID) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"valid authentication required","code":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the caller's user id, or model.GuestID when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return model.GuestID
}

// extractUserID validates the bearer token, falling back to the cookie.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	return tokens.Validate(extractToken(r))
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
