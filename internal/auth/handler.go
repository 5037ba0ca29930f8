package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gravity-wh/prompt-flow/internal/models"
	"github.com/gravity-wh/prompt-flow/internal/store"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	CreateProfile(ctx context.Context, username, email, hashedPw string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	profiles ProfileStore
	sessions *SessionStore
	logger   *zap.Logger
}

func NewHandler(profiles ProfileStore, sessions *SessionStore, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, sessions: sessions, logger: logger}
}

// Register creates a new profile.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"username, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	profile, err := h.profiles.CreateProfile(r.Context(), req.Username, req.Email, string(hashed))
	if errors.Is(err, store.ErrDuplicate) {
		http.Error(w, `{"error":"username or email already taken"}`, http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("create profile", zap.Error(err))
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("profile registered", zap.String("profile_id", profile.ID))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profile)
}

// Login authenticates a profile and creates a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.GetProfileByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || profile == nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	sid, err := h.sessions.Create(r.Context(), profile.ID)
	if err != nil {
		h.logger.Error("create session", zap.Error(err))
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL() / time.Second),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("delete session", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Me returns the currently authenticated profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if caller == nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.GetProfileByID(r.Context(), caller.ID)
	if err != nil || profile == nil {
		http.Error(w, `{"error":"profile not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
