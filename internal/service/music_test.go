package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicbesties/api/internal/model"
	"github.com/musicbesties/api/internal/store"
)

func TestMusicSearch(t *testing.T) {
	svc := NewMusicService(store.NewSeededMemoryStore(), nil)

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	res, err := svc.Search(context.Background(), " TAYLOR ")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, store.TestArtistName, res.Items[0].Name)
}

func TestMusicSearchStoreFailure(t *testing.T) {
	st := newFailingStore(store.NewMemoryStore(), map[string]error{"SearchArtists": errBoom})
	svc := NewMusicService(st, nil)

	_, err := svc.Search(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestMusicAlbumsAndTracks(t *testing.T) {
	svc := NewMusicService(store.NewSeededMemoryStore(), nil)

	albums, err := svc.Albums(context.Background(), store.TestArtistID)
	require.NoError(t, err)
	assert.Len(t, albums, 2)

	tracks, err := svc.Tracks(context.Background(), "album-folklore")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, 1, *tracks[0].TrackNumber)
}

func TestMusicSetPrimaryArtist(t *testing.T) {
	st := store.NewSeededMemoryStore()
	svc := NewMusicService(st, nil)
	ctx := context.Background()

	err := svc.SetPrimaryArtist(ctx, store.TestUserID, &model.UserArtist{UserID: "someone-else", ArtistID: "a"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.SetPrimaryArtist(ctx, "ghost", &model.UserArtist{UserID: "ghost", ArtistID: "a"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.SetPrimaryArtist(ctx, store.TestUserID, &model.UserArtist{UserID: store.TestUserID})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.SetPrimaryArtist(ctx, store.TestUserID, &model.UserArtist{UserID: store.TestUserID, ArtistID: "new-artist"}))
	p, err := st.GetProfile(ctx, store.TestUserID)
	require.NoError(t, err)
	assert.Equal(t, "new-artist", p.PrimaryArtist())
}

func TestMusicCurateValidation(t *testing.T) {
	svc := NewMusicService(store.NewMemoryStore(), nil)

	tests := []struct {
		name string
		sub  model.CurationSubmission
	}{
		{"missing item", model.CurationSubmission{ItemType: "album", Rating: 3}},
		{"bad type", model.CurationSubmission{ItemID: "i", ItemType: "playlist", Rating: 3}},
		{"rating too low", model.CurationSubmission{ItemID: "i", ItemType: "song", Rating: 0}},
		{"rating too high", model.CurationSubmission{ItemID: "i", ItemType: "song", Rating: 6}},
		{"rank out of range", model.CurationSubmission{ItemID: "i", ItemType: "song", Rating: 3, WeightedRankPercentage: intPtr(101)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			_, err := svc.Curate(context.Background(), "u1", &sub)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMusicCurateUpsert(t *testing.T) {
	svc := NewMusicService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	created, err := svc.Curate(ctx, "u1", &model.CurationSubmission{ItemID: "album-1", ItemType: "album", Rating: 4, Comment: strPtr("great")})
	require.NoError(t, err)
	assert.Equal(t, "Curation created successfully", created.Message)
	require.NotEmpty(t, created.ID)

	updated, err := svc.Curate(ctx, "u1", &model.CurationSubmission{ItemID: "album-1", ItemType: "album", Rating: 5, WeightedRankPercentage: intPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, "Curation updated successfully", updated.Message)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, *updated.Curation.Rating)

	// Same item id with another type is a separate curation.
	other, err := svc.Curate(ctx, "u1", &model.CurationSubmission{ItemID: "album-1", ItemType: "song", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, "Curation created successfully", other.Message)

	list, err := svc.Curations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
