package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gravity-wh/prompt-flow/internal/auth"
	"github.com/gravity-wh/prompt-flow/internal/models"
	"github.com/gravity-wh/prompt-flow/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// FeedCache caches the anonymous feed page per limit.
type FeedCache interface {
	Get(ctx context.Context, limit int) ([]byte, bool, error)
	Set(ctx context.Context, limit int, data []byte) error
}

// feedResponse is the body of GET /api/feed. Available is false when the
// feed could not be read; clients show a "data unavailable" state.
type feedResponse struct {
	Available bool              `json:"available"`
	Items     []models.FeedItem `json:"items"`
}

// Handler holds prompt HTTP handlers.
type Handler struct {
	svc            *Service
	cache          FeedCache
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(svc *Service, cache FeedCache, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cache: cache, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Feed returns the newest prompts for the (optional) caller. Anonymous
// pages are served from the cache when possible.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := DefaultFeedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, `{"error":"limit must be an integer"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	limit = ClampLimit(limit)
	caller := auth.CallerFrom(r.Context())

	if caller == nil && h.cache != nil {
		data, ok, err := h.cache.Get(r.Context(), limit)
		if err != nil {
			h.logger.Warn("feed cache read failed", zap.Error(err))
		}
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(data)
			return
		}
	}

	items, err := h.svc.ComposeFeed(r.Context(), caller, limit)
	if err != nil {
		h.logger.Error("error fetching prompts", zap.Error(err))
		writeJSON(w, http.StatusOK, feedResponse{Available: false, Items: []models.FeedItem{}})
		return
	}

	body, err := json.Marshal(feedResponse{Available: true, Items: items})
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if caller == nil && h.cache != nil {
		if err := h.cache.Set(r.Context(), limit, body); err != nil {
			h.logger.Warn("feed cache write failed", zap.Error(err))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Create publishes a prompt from a multipart form with fields title, model,
// prompt_text and file field image.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := models.CreatePromptInput{
		Title:      r.FormValue("title"),
		Model:      r.FormValue("model"),
		PromptText: r.FormValue("prompt_text"),
	}
	if file, header, err := r.FormFile("image"); err == nil {
		img, err := readImage(file, header, h.maxUploadBytes)
		file.Close()
		if err != nil {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
			return
		}
		in.Image = img
	}

	if _, err := h.svc.CreatePrompt(r.Context(), auth.CallerFrom(r.Context()), in); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// Like records a like and returns the revealed prompt detail.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prompt id"})
		return
	}

	detail, err := h.svc.LikePrompt(r.Context(), auth.CallerFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var perr *Error
	if !errors.As(err, &perr) {
		h.logger.Error("unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	msg := perr.Msg
	switch perr.Kind {
	case KindUnauthenticated:
		status = http.StatusUnauthorized
	case KindInvalidInput:
		status = http.StatusBadRequest
	case KindUploadFailed:
		status = http.StatusBadGateway
		msg = perr.Error()
	case KindCreateFailed:
		msg = perr.Error()
	case KindLikeFailed, KindPromptLookupFailed:
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
	}
	if status >= 500 {
		h.logger.Error("prompt operation failed", zap.Stringer("kind", perr.Kind), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func readImage(file multipart.File, header *multipart.FileHeader, maxBytes int64) (models.ImageFile, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return models.ImageFile{}, err
	}
	if int64(len(data)) > maxBytes {
		return models.ImageFile{}, errors.New("upload too large")
	}
	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return models.ImageFile{Name: header.Filename, ContentType: ct, Data: data}, nil
}
