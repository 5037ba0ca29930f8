package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravity-wh/prompt-flow/internal/auth"
	"github.com/gravity-wh/prompt-flow/internal/models"
	"github.com/gravity-wh/prompt-flow/internal/store"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]*models.Profile
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: make(map[string]*models.Profile)}
}

func (m *memProfiles) CreateProfile(_ context.Context, username, email, hashed string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Username == username || p.Email == email {
			return nil, fmt.Errorf("create profile: %w", store.ErrDuplicate)
		}
	}
	p := &models.Profile{
		ID:        fmt.Sprintf("p-%d", len(m.byID)+1),
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memProfiles) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memProfiles) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.Password = ""
	return &cp, nil
}

func setupAuth(t *testing.T) (*auth.Handler, *auth.SessionStore, *memProfiles, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := auth.NewSessionStore(rdb, time.Hour)
	profiles := newMemProfiles()
	return auth.NewHandler(profiles, sessions, zap.NewNop()), sessions, profiles, mr
}

func postJSON(h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	h, _, profiles, _ := setupAuth(t)

	rec := postJSON(h.Register, models.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "alice@example.com", got["email"])
	assert.NotContains(t, got, "password")

	stored, err := profiles.GetProfileByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw")))

	rec = postJSON(h.Register, models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(h.Register, models.RegisterRequest{Username: "", Email: "x@example.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginLogout(t *testing.T) {
	h, sessions, _, mr := setupAuth(t)
	require.Equal(t, http.StatusCreated,
		postJSON(h.Register, models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret"}).Code)

	rec := postJSON(h.Login, models.LoginRequest{Email: "bob@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(h.Login, models.LoginRequest{Email: "bob@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	profileID, err := sessions.Get(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "p-1", profileID)
	assert.Equal(t, time.Hour, mr.TTL("session:"+cookies[0].Value))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(cookies[0])
	out := httptest.NewRecorder()
	h.Logout(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
	assert.False(t, mr.Exists("session:"+cookies[0].Value))
}

func TestMe(t *testing.T) {
	h, _, profiles, _ := setupAuth(t)
	p, err := profiles.CreateProfile(context.Background(), "carol", "carol@example.com", "x")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithCaller(req.Context(), &models.Caller{ID: p.ID}))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"carol"`)
}

func TestSessionStore_Expiry(t *testing.T) {
	_, sessions, _, mr := setupAuth(t)
	ctx := context.Background()

	sid, err := sessions.Create(ctx, "p-9")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	got, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, got)
}
