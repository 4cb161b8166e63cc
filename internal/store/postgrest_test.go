package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgRESTServer(t *testing.T, handler http.HandlerFunc) *PostgRESTStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewPostgRESTStoreWithURL(srv.URL+"/rest/v1", "anon-key")
	require.NoError(t, err)
	return s
}

func TestPostgRESTGetProfile(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"user-1","username":"Ann","primary_artist_id":"X","created_at":"2025-01-01T00:00:00.123456+00:00"}]`))
	})

	p, err := s.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Username)
	assert.Equal(t, "X", p.PrimaryArtist())
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, 2025, p.CreatedAt.Year())
}

func TestPostgRESTGetProfileEmptyIsNotFound(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := s.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgRESTSearchArtistsUsesIlikeAndLimit(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/artists", r.URL.Path)
		assert.Equal(t, "ilike.%tay%", r.URL.Query().Get("name"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","name":"Taylor Swift","genre":"Pop"}]`))
	})

	got, err := s.SearchArtists(context.Background(), "tay", SearchLimit)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Taylor Swift", got[0].Name)
}

func TestPostgRESTHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`[]`))
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.GetArtist(ctx, "a1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
