package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicbesties/api/internal/model"
)

func TestSeededStoreHasTestProfile(t *testing.T) {
	s := NewSeededMemoryStore()
	ctx := context.Background()

	p, err := s.GetProfile(ctx, TestUserID)
	require.NoError(t, err)
	assert.Equal(t, "TestUser", p.Username)
	assert.Equal(t, TestArtistID, p.PrimaryArtist())

	a, err := s.GetArtist(ctx, TestArtistID)
	require.NoError(t, err)
	assert.Equal(t, TestArtistName, a.Name)
}

func TestGetProfileNotFound(t *testing.T) {
	_, err := NewMemoryStore().GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchArtistsCaseInsensitiveWithLimit(t *testing.T) {
	s := NewMemoryStore()
	for _, name := range []string{"Alpha", "alphabet", "Beta", "ALPHAVILLE"} {
		s.AddArtist(model.Artist{ID: name, Name: name})
	}
	ctx := context.Background()

	got, err := s.SearchArtists(ctx, "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.SearchArtists(ctx, "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.SearchArtists(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListTracksOrderedByTrackNumber(t *testing.T) {
	s := NewSeededMemoryStore()

	tracks, err := s.ListTracks(context.Background(), "album-folklore")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "the 1", tracks[0].Title)
	assert.Equal(t, "cardigan", tracks[1].Title)
}

func TestSetPrimaryArtist(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.SetPrimaryArtist(ctx, "ghost", "a"), ErrNotFound)

	require.NoError(t, s.CreateProfile(ctx, &model.Profile{ID: "u1", Username: "Ann"}))
	require.NoError(t, s.SetPrimaryArtist(ctx, "u1", "artist-9"))

	p, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "artist-9", p.PrimaryArtist())
	assert.NotNil(t, p.UpdatedAt)
}

func TestCurationInsertFindUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rating := 4

	_, err := s.FindCuration(ctx, "u1", "album-1", model.ItemTypeAlbum)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := s.InsertCuration(ctx, &model.Curation{
		UserID: "u1", CuratedItemID: "album-1", ItemType: model.ItemTypeAlbum, Rating: &rating,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	found, err := s.FindCuration(ctx, "u1", "album-1", model.ItemTypeAlbum)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.FindCuration(ctx, "u1", "album-1", model.ItemTypeSong)
	assert.ErrorIs(t, err, ErrNotFound)

	newRating := 5
	found.Rating = &newRating
	updated, err := s.UpdateCuration(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, 5, *updated.Rating)

	list, err := s.ListCurations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
