package handlers

import (
	"net/http"
	"strconv"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/service"
)

// VideoHandler provides catalog endpoints.
type VideoHandler struct {
	Videos VideoService
}

type videoListResponse struct {
	Message    string         `json:"message"`
	Videos     []models.Video `json:"videos"`
	TotalItems int            `json:"totalItems"`
}

type videoResponse struct {
	Message string       `json:"message"`
	Video   models.Video `json:"video"`
}

type userVideosResponse struct {
	Message string         `json:"message"`
	Videos  []models.Video `json:"videos"`
}

type createVideoResponse struct {
	Message string                 `json:"message"`
	Video   models.Video           `json:"video"`
	Creator service.CreatorSummary `json:"creator"`
}

// List handles GET /videos?page=N.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.Videos.List(ctx, page)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, videoListResponse{
		Message:    "Videos fetched",
		Videos:     result.Videos,
		TotalItems: result.TotalItems,
	})
}

// Get handles GET /videos/{videoId}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, err := h.Videos.Get(ctx, r.PathValue("videoId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, videoResponse{Message: "Fetched video", Video: video})
}

// ListByUser handles GET /videos/user/{userId}.
func (h VideoHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Videos.ListByUser(ctx, r.PathValue("userId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, userVideosResponse{Message: "Fetched videos", Videos: videos})
}

// Create handles POST /videos. The caller must be authenticated.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateVideoInput
	if err := decodeJSON(w, r, &req); err != nil {
		logging.FromContext(ctx).Warn("invalid video payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	video, creator, err := h.Videos.Create(ctx, userIDFrom(r), req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, createVideoResponse{
		Message: "Video created",
		Video:   video,
		Creator: creator,
	})
}

// Delete handles DELETE /videos/{videoId}. Only the creator may delete.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Videos.Delete(ctx, r.PathValue("videoId"), userIDFrom(r)); err != nil {
		writeError(ctx, w, err)
		return
	}

	respondMessage(ctx, w, http.StatusOK, "Deleted video")
}
