package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memoirapp/mediakit/internal/server/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type mediaResponse struct {
	ID           string    `json:"id"`
	MediaType    string    `json:"media_type"`
	Title        string    `json:"title,omitempty"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	OwningID     string    `json:"owning_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type createMediaRequest struct {
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
	OwningID     string `json:"owning_id"`
}

type mediaPageResponse struct {
	Data       []mediaResponse `json:"data"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

func toMediaResponse(m models.Media) mediaResponse {
	return mediaResponse{
		ID:           m.ID,
		MediaType:    m.MediaType,
		Title:        m.Title,
		MediaURL:     m.MediaURL,
		ThumbnailURL: m.ThumbnailURL,
		Description:  m.Description,
		OwningID:     m.OwningID,
		CreatedAt:    m.CreatedAt,
	}
}

func (h *Handler) createMedia(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, CodeValidation, "malformed request body")
		return
	}
	if req.MediaURL == "" || req.MediaType == "" {
		fail(w, http.StatusBadRequest, CodeValidation, "media_url and media_type are required")
		return
	}

	m := &models.Media{
		UserID:       userID(r.Context()),
		MediaType:    req.MediaType,
		Title:        req.Title,
		MediaURL:     req.MediaURL,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
		OwningID:     req.OwningID,
	}

	created, err := h.media.Create(r.Context(), m)
	if err != nil {
		h.log.Error(r.Context(), "creating media record", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	ok(w, toMediaResponse(*created))
}

func (h *Handler) listMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := models.MediaFilter{
		OwningID:  q.Get("album_id"),
		MediaType: q.Get("media_type"),
	}

	items, total, err := h.media.List(r.Context(), userID(r.Context()), filter, page, pageSize)
	if err != nil {
		h.log.Error(r.Context(), "listing media", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	data := make([]mediaResponse, 0, len(items))
	for _, m := range items {
		data = append(data, toMediaResponse(m))
	}

	totalPages := (total + pageSize - 1) / pageSize

	ok(w, mediaPageResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func (h *Handler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, http.StatusBadRequest, CodeValidation, "id is required")
		return
	}

	if err := h.media.Delete(r.Context(), userID(r.Context()), id); err != nil {
		h.log.Error(r.Context(), "deleting media", "id", id, "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	ok(w, nil)
}
