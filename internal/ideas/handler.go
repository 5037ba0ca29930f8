// Package ideas serves the admin catalog of prompt ideas.
package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gravity-wh/prompt-flow/internal/models"
	"github.com/gravity-wh/prompt-flow/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Store defines the interface for idea persistence.
type Store interface {
	Insert(ctx context.Context, idea *models.Idea) (string, error)
	List(ctx context.Context, category string) ([]models.Idea, error)
	GetByID(ctx context.Context, id string) (*models.Idea, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

// Handler holds idea catalog HTTP handlers.
type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(s Store, logger *zap.Logger) *Handler {
	return &Handler{store: s, logger: logger}
}

// List returns all ideas, or those in ?category= when given.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.store.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("list ideas", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	writeJSON(w, http.StatusOK, ideas)
}

// Get returns a single idea.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	idea, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "get idea")
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

// Create adds an idea. Every field in models.RequiredIdeaFields must be set.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	for _, f := range models.RequiredIdeaFields {
		if _, present := fields[f]; !present {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: " + f})
			return
		}
	}

	idea := ideaFromFields(fields)
	id, err := h.store.Insert(r.Context(), &idea)
	if err != nil {
		h.logger.Error("insert idea", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save idea"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "message": "Idea added successfully"})
}

// Update sets the supplied fields on an idea.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No fields to update"})
		return
	}
	set := make(map[string]any, len(fields))
	for k, v := range fields {
		set[k] = v
	}

	if err := h.store.Update(r.Context(), chi.URLParam(r, "id"), set); err != nil {
		h.storeError(w, err, "update idea")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea updated successfully"})
}

// Delete removes an idea.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err, "delete idea")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Idea deleted successfully"})
}

// Categories returns the distinct idea categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) storeError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrIdeaNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Idea not found"})
		return
	}
	h.logger.Error(op, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database error"})
}

// decodeFields reads a JSON object and keeps only known idea fields, all of
// which must be strings.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	fields := make(map[string]string)
	for _, f := range models.IdeaFields {
		v, ok := raw[f]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("field %s must be a string", f)})
			return nil, false
		}
		fields[f] = s
	}
	return fields, true
}

func ideaFromFields(f map[string]string) models.Idea {
	return models.Idea{
		Model:       f["model"],
		Mode:        f["mode"],
		Category:    f["category"],
		Author:      f["author"],
		Headline:    f["headline"],
		Description: f["description"],
		PromptText:  f["prompt_text"],
		EffectImage: f["effect_image"],
	}
}
