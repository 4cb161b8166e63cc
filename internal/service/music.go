package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/store"
	"github.com/musicbesties/api/pkg/logger"
	"github.com/musicbesties/api/pkg/metrics"
)

// MusicService handles artist search and curation.
type MusicService struct {
	store  store.Store
	logger *logger.Logger
	now    func() time.Time
}

// NewMusicService creates a new music service.
func NewMusicService(st store.Store, log *logger.Logger) *MusicService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MusicService{
		store:  st,
		logger: log.Named("music"),
		now:    time.Now,
	}
}

// Search finds artists whose name contains query, ignoring case.
func (s *MusicService) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}

	artists, err := s.store.SearchArtists(ctx, query, store.SearchLimit)
	if err != nil {
		return nil, s.storeError("search artists", err)
	}
	return &model.SearchResult{Items: artists}, nil
}

// Albums lists the albums of an artist.
func (s *MusicService) Albums(ctx context.Context, artistID string) ([]model.Album, error) {
	if artistID == "" {
		return nil, validationError("artist id is required")
	}
	albums, err := s.store.ListAlbums(ctx, artistID)
	if err != nil {
		return nil, s.storeError("list albums", err)
	}
	return albums, nil
}

// Tracks lists the songs of an album ordered by track number.
func (s *MusicService) Tracks(ctx context.Context, albumID string) ([]model.Song, error) {
	if albumID == "" {
		return nil, validationError("album id is required")
	}
	songs, err := s.store.ListTracks(ctx, albumID)
	if err != nil {
		return nil, s.storeError("list tracks", err)
	}
	return songs, nil
}

// SetPrimaryArtist sets the caller's primary artist.
func (s *MusicService) SetPrimaryArtist(ctx context.Context, authUserID string, req *model.UserArtist) error {
	if req.ArtistID == "" {
		return validationError("artist_id is required")
	}
	if req.UserID != "" && req.UserID != authUserID {
		return ErrForbidden
	}

	if err := s.store.SetPrimaryArtist(ctx, authUserID, req.ArtistID); err != nil {
		return s.storeError("set primary artist", err)
	}

	s.logger.Info("primary artist set",
		zap.String("user_id", authUserID),
		zap.String("artist_id", req.ArtistID),
	)
	return nil
}

// Curate creates or updates the caller's curation of an album or song.
func (s *MusicService) Curate(ctx context.Context, userID string, sub *model.CurationSubmission) (*model.CurationResponse, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	rating := sub.Rating
	now := s.now().UTC()
	curation := &model.Curation{
		UserID:                 userID,
		CuratedItemID:          sub.ItemID,
		ItemType:               sub.ItemType,
		Rating:                 &rating,
		Comment:                sub.Comment,
		WeightedRankPercentage: sub.WeightedRankPercentage,
		UpdatedAt:              &now,
	}

	existing, err := s.store.FindCuration(ctx, userID, sub.ItemID, sub.ItemType)
	switch {
	case err == nil:
		curation.ID = existing.ID
		updated, err := s.store.UpdateCuration(ctx, curation)
		if err != nil {
			return nil, s.storeError("update curation", err)
		}
		metrics.CurationsTotal.WithLabelValues(sub.ItemType, "update").Inc()
		return &model.CurationResponse{ID: updated.ID, Message: "Curation updated successfully", Curation: *updated}, nil

	case errors.Is(err, store.ErrNotFound):
		created, err := s.store.InsertCuration(ctx, curation)
		if err != nil {
			return nil, s.storeError("insert curation", err)
		}
		metrics.CurationsTotal.WithLabelValues(sub.ItemType, "create").Inc()
		return &model.CurationResponse{ID: created.ID, Message: "Curation created successfully", Curation: *created}, nil

	default:
		return nil, s.storeError("find curation", err)
	}
}

// Curations lists the caller's curations.
func (s *MusicService) Curations(ctx context.Context, userID string) ([]model.Curation, error) {
	curations, err := s.store.ListCurations(ctx, userID)
	if err != nil {
		return nil, s.storeError("list curations", err)
	}
	return curations, nil
}

func validateSubmission(sub *model.CurationSubmission) error {
	if sub.ItemID == "" {
		return validationError("item_id is required")
	}
	if sub.ItemType != model.ItemTypeAlbum && sub.ItemType != model.ItemTypeSong {
		return validationError("item_type must be %q or %q", model.ItemTypeAlbum, model.ItemTypeSong)
	}
	if sub.Rating < 1 || sub.Rating > 5 {
		return validationError("rating must be between 1 and 5")
	}
	if r := sub.WeightedRankPercentage; r != nil && (*r < 0 || *r > 100) {
		return validationError("weighted_rank_percentage must be between 0 and 100")
	}
	return nil
}

func (s *MusicService) storeError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return upstreamError(op, err)
}
