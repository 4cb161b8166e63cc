package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/musicbesties/api/internal/model"
)

// Seed data served in test mode.
const (
	TestUserID     = "test-user-123"
	TestUserEmail  = "test@example.com"
	TestArtistID   = "spotify:artist:06HL4z0CvFAxyc27GXpf02"
	TestArtistName = "Taylor Swift"
)

// MemoryStore is an in-process Store used in test mode.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[string]*model.Profile
	artists   map[string]*model.Artist
	albums    map[string]*model.Album
	songs     map[string]*model.Song
	curations map[string]*model.Curation
	now       func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[string]*model.Profile),
		artists:   make(map[string]*model.Artist),
		albums:    make(map[string]*model.Album),
		songs:     make(map[string]*model.Song),
		curations: make(map[string]*model.Curation),
		now:       time.Now,
	}
}

// NewSeededMemoryStore creates a store holding the test user and catalogue.
func NewSeededMemoryStore() *MemoryStore {
	s := NewMemoryStore()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	avatar := "https://example.com/avatar.png"
	artistID := TestArtistID
	s.profiles[TestUserID] = &model.Profile{
		ID:              TestUserID,
		Username:        "TestUser",
		AvatarURL:       &avatar,
		PrimaryArtistID: &artistID,
		CreatedAt:       &created,
		UpdatedAt:       &created,
	}

	s.AddArtist(model.Artist{ID: TestArtistID, Name: TestArtistName, Genre: "Pop"})
	s.AddArtist(model.Artist{ID: "spotify:artist:4Z8W4fKeB5YxbusRsdQVPb", Name: "Radiohead", Genre: "Alternative"})
	s.AddArtist(model.Artist{ID: "spotify:artist:1uNFoZAHBGtllmzznpCI3s", Name: "Phoebe Bridgers", Genre: "Indie"})

	year := func(y int) *int { return &y }
	s.AddAlbum(model.Album{ID: "album-folklore", ArtistID: TestArtistID, Title: "folklore", ReleaseYear: year(2020)})
	s.AddAlbum(model.Album{ID: "album-1989", ArtistID: TestArtistID, Title: "1989", ReleaseYear: year(2014)})

	track := func(n int) *int { return &n }
	s.AddSong(model.Song{ID: "song-cardigan", AlbumID: "album-folklore", Title: "cardigan", Duration: track(239), TrackNumber: track(2)})
	s.AddSong(model.Song{ID: "song-the-1", AlbumID: "album-folklore", Title: "the 1", Duration: track(210), TrackNumber: track(1)})

	return s
}

// AddArtist inserts or replaces an artist.
func (s *MemoryStore) AddArtist(a model.Artist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists[a.ID] = &a
}

// AddAlbum inserts or replaces an album.
func (s *MemoryStore) AddAlbum(a model.Album) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.albums[a.ID] = &a
}

// AddSong inserts or replaces a song.
func (s *MemoryStore) AddSong(song model.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs[song.ID] = &song
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) CreateProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cp := *profile
	if cp.CreatedAt == nil {
		cp.CreatedAt = &now
	}
	cp.UpdatedAt = &now
	s.profiles[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) SetPrimaryArtist(ctx context.Context, userID, artistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	now := s.now()
	id := artistID
	p.PrimaryArtistID = &id
	p.UpdatedAt = &now
	return nil
}

func (s *MemoryStore) GetArtist(ctx context.Context, artistID string) (*model.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artists[artistID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) SearchArtists(ctx context.Context, query string, limit int) ([]model.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := make([]model.Artist, 0)
	for _, a := range s.artists {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListAlbums(ctx context.Context, artistID string) ([]model.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Album, 0)
	for _, a := range s.albums {
		if a.ArtistID == artistID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *MemoryStore) ListTracks(ctx context.Context, albumID string) ([]model.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Song, 0)
	for _, song := range s.songs {
		if song.AlbumID == albumID {
			out = append(out, *song)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return trackNumber(out[i]) < trackNumber(out[j])
	})
	return out, nil
}

func trackNumber(s model.Song) int {
	if s.TrackNumber == nil {
		return int(^uint(0) >> 1)
	}
	return *s.TrackNumber
}

func (s *MemoryStore) FindCuration(ctx context.Context, userID, itemID, itemType string) (*model.Curation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.curations {
		if c.UserID == userID && c.CuratedItemID == itemID && c.ItemType == itemType {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertCuration(ctx context.Context, c *model.Curation) (*model.Curation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cp := *c
	cp.ID = uuid.NewString()
	cp.UpdatedAt = &now
	s.curations[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (s *MemoryStore) UpdateCuration(ctx context.Context, c *model.Curation) (*model.Curation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.curations[c.ID]; !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	cp := *c
	cp.UpdatedAt = &now
	s.curations[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (s *MemoryStore) ListCurations(ctx context.Context, userID string) ([]model.Curation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Curation, 0)
	for _, c := range s.curations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
