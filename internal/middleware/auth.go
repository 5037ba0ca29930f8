package middleware

import (
	"net/http"

	"github.com/gravity-wh/prompt-flow/internal/auth"
	"github.com/gravity-wh/prompt-flow/internal/models"
)

// RequireAuth is middleware that validates the session cookie and
// injects the caller into the request context.
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			profileID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || profileID == "" {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := auth.WithCaller(r.Context(), &models.Caller{ID: profileID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the caller when a valid session cookie is present
// and otherwise lets the request through anonymously.
func OptionalAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			profileID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || profileID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := auth.WithCaller(r.Context(), &models.Caller{ID: profileID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
