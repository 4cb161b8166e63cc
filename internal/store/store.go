// Package store provides access to the hosted music database.
package store

import (
	"context"
	"errors"

	"github.com/musicbesties/api/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// SearchLimit caps artist search results.
const SearchLimit = 10

// Store is the hosted database used by the API.
type Store interface {
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	CreateProfile(ctx context.Context, profile *model.Profile) error
	SetPrimaryArtist(ctx context.Context, userID, artistID string) error

	GetArtist(ctx context.Context, artistID string) (*model.Artist, error)
	// SearchArtists matches name by case-insensitive substring, at most limit rows.
	SearchArtists(ctx context.Context, query string, limit int) ([]model.Artist, error)
	ListAlbums(ctx context.Context, artistID string) ([]model.Album, error)
	// ListTracks returns the songs of an album ordered by track number.
	ListTracks(ctx context.Context, albumID string) ([]model.Song, error)

	// FindCuration looks up the curation keyed by (user, item, item type).
	FindCuration(ctx context.Context, userID, itemID, itemType string) (*model.Curation, error)
	InsertCuration(ctx context.Context, c *model.Curation) (*model.Curation, error)
	UpdateCuration(ctx context.Context, c *model.Curation) (*model.Curation, error)
	ListCurations(ctx context.Context, userID string) ([]model.Curation, error)
}
