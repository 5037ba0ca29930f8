package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravity-wh/prompt-flow/internal/auth"
)

func newSessions(t *testing.T) *auth.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return auth.NewSessionStore(rdb, time.Hour)
}

// echoCaller writes the resolved caller id, or "anonymous".
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if c := auth.CallerFrom(r.Context()); c != nil {
		w.Write([]byte(c.ID))
		return
	}
	w.Write([]byte("anonymous"))
})

func request(cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: cookie})
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	sessions := newSessions(t)
	sid, err := sessions.Create(context.Background(), "profile-1")
	require.NoError(t, err)
	h := RequireAuth(sessions)(echoCaller)

	tests := []struct {
		name   string
		cookie string
		status int
		body   string
	}{
		{"no cookie", "", http.StatusUnauthorized, "not authenticated"},
		{"unknown session", "nope", http.StatusUnauthorized, "session expired"},
		{"valid session", sid, http.StatusOK, "profile-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tt.cookie))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	sessions := newSessions(t)
	sid, err := sessions.Create(context.Background(), "profile-2")
	require.NoError(t, err)
	h := OptionalAuth(sessions)(echoCaller)

	for cookie, want := range map[string]string{
		"":      "anonymous",
		"stale": "anonymous",
		sid:     "profile-2",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, request(cookie))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}
}
