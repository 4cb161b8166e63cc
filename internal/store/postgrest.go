package store

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/musicbesties/api/internal/model"
)

// Table names in the hosted database.
const (
	tableProfiles  = "profiles"
	tableArtists   = "artists"
	tableAlbums    = "albums"
	tableSongs     = "songs"
	tableCurations = "user_curations"
)

// PostgRESTStore is a Store backed by Supabase's PostgREST API.
type PostgRESTStore struct {
	client *postgrest.Client
	now    func() time.Time
}

// NewPostgRESTStore creates a store for the Supabase project at projectURL.
func NewPostgRESTStore(projectURL, apiKey string) (*PostgRESTStore, error) {
	return NewPostgRESTStoreWithURL(projectURL+"/rest/v1", apiKey)
}

// NewPostgRESTStoreWithURL creates a store against a PostgREST base URL.
func NewPostgRESTStoreWithURL(restURL, apiKey string) (*PostgRESTStore, error) {
	client := postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to create PostgREST client: %w", client.ClientError)
	}

	return &PostgRESTStore{client: client, now: time.Now}, nil
}

// run executes a blocking PostgREST call but returns early when ctx ends.
// The client has no context support; the call itself finishes in the background.
func run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (s *PostgRESTStore) Ping(ctx context.Context) error {
	var rows []model.Artist
	return run(ctx, func() error {
		_, err := s.client.From(tableArtists).Select("id", "", false).Limit(1, "").ExecuteTo(&rows)
		return err
	})
}

func (s *PostgRESTStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var rows []model.Profile
	err := run(ctx, func() error {
		_, err := s.client.From(tableProfiles).Select("*", "", false).Eq("id", userID).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *PostgRESTStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	now := s.now()
	row := *profile
	row.UpdatedAt = &now

	var rows []model.Profile
	err := run(ctx, func() error {
		_, err := s.client.From(tableProfiles).Insert(row, false, "", "representation", "").ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *PostgRESTStore) SetPrimaryArtist(ctx context.Context, userID, artistID string) error {
	update := map[string]any{
		"primary_artist_id": artistID,
		"updated_at":        s.now(),
	}

	var rows []model.Profile
	err := run(ctx, func() error {
		_, err := s.client.From(tableProfiles).Update(update, "representation", "").Eq("id", userID).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgRESTStore) GetArtist(ctx context.Context, artistID string) (*model.Artist, error) {
	var rows []model.Artist
	err := run(ctx, func() error {
		_, err := s.client.From(tableArtists).Select("*", "", false).Eq("id", artistID).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *PostgRESTStore) SearchArtists(ctx context.Context, query string, limit int) ([]model.Artist, error) {
	rows := make([]model.Artist, 0)
	err := run(ctx, func() error {
		_, err := s.client.From(tableArtists).
			Select("*", "", false).
			Ilike("name", "%"+query+"%").
			Limit(limit, "").
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	return rows, nil
}

func (s *PostgRESTStore) ListAlbums(ctx context.Context, artistID string) ([]model.Album, error) {
	rows := make([]model.Album, 0)
	err := run(ctx, func() error {
		_, err := s.client.From(tableAlbums).Select("*", "", false).Eq("artist_id", artistID).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return rows, nil
}

func (s *PostgRESTStore) ListTracks(ctx context.Context, albumID string) ([]model.Song, error) {
	rows := make([]model.Song, 0)
	err := run(ctx, func() error {
		_, err := s.client.From(tableSongs).
			Select("*", "", false).
			Eq("album_id", albumID).
			Order("track_number", &postgrest.OrderOpts{Ascending: true}).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return rows, nil
}

func (s *PostgRESTStore) FindCuration(ctx context.Context, userID, itemID, itemType string) (*model.Curation, error) {
	var rows []model.Curation
	err := run(ctx, func() error {
		_, err := s.client.From(tableCurations).
			Select("*", "", false).
			Eq("user_id", userID).
			Eq("curated_item_id", itemID).
			Eq("item_type", itemType).
			ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing curation: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *PostgRESTStore) InsertCuration(ctx context.Context, c *model.Curation) (*model.Curation, error) {
	now := s.now()
	row := *c
	row.ID = ""
	row.UpdatedAt = &now

	var rows []model.Curation
	err := run(ctx, func() error {
		_, err := s.client.From(tableCurations).Insert(row, false, "", "representation", "").ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert curation: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert curation returned no rows")
	}
	return &rows[0], nil
}

func (s *PostgRESTStore) UpdateCuration(ctx context.Context, c *model.Curation) (*model.Curation, error) {
	now := s.now()
	row := *c
	id := row.ID
	row.ID = ""
	row.UpdatedAt = &now

	var rows []model.Curation
	err := run(ctx, func() error {
		_, err := s.client.From(tableCurations).Update(row, "representation", "").Eq("id", id).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update curation: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *PostgRESTStore) ListCurations(ctx context.Context, userID string) ([]model.Curation, error) {
	rows := make([]model.Curation, 0)
	err := run(ctx, func() error {
		_, err := s.client.From(tableCurations).Select("*", "", false).Eq("user_id", userID).ExecuteTo(&rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list curations: %w", err)
	}
	return rows, nil
}
