package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/musicbesties/api/internal/middleware"
	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/service"
	"github.com/musicbesties/api/pkg/logger"
)

// MusicHandler handles music search and curation endpoints.
type MusicHandler struct {
	service *service.MusicService
	logger  *logger.Logger
}

// NewMusicHandler creates a new music handler.
func NewMusicHandler(svc *service.MusicService, log *logger.Logger) *MusicHandler {
	return &MusicHandler{
		service: svc,
		logger:  log,
	}
}

// Search handles POST /api/music/search
func (h *MusicHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Search(r.Context(), req.Query)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Albums handles GET /api/music/artists/{artistID}/albums
func (h *MusicHandler) Albums(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistID")
	if err := middleware.ValidateID(artistID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	albums, err := h.service.Albums(r.Context(), artistID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": albums,
	})
}

// Tracks handles GET /api/music/albums/{albumID}/tracks
func (h *MusicHandler) Tracks(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "albumID")
	if err := middleware.ValidateID(albumID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracks, err := h.service.Tracks(r.Context(), albumID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": tracks,
	})
}

// SetPrimaryArtist handles POST /api/music/set-primary-artist
func (h *MusicHandler) SetPrimaryArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.UserArtist
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SetPrimaryArtist(ctx, middleware.GetUserID(ctx), &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Primary artist set successfully",
		"artist_id": req.ArtistID,
	})
}

// Curate handles POST /api/music/curate
func (h *MusicHandler) Curate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CurationSubmission
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Curate(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Curations handles GET /api/music/curations
func (h *MusicHandler) Curations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	curations, err := h.service.Curations(ctx, middleware.GetUserID(ctx))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": curations,
	})
}
