package model

import (
	"time"
)

// Item types that can be curated.
const (
	ItemTypeAlbum = "album"
	ItemTypeSong  = "song"
)

// Artist is a music artist.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Genre    string `json:"genre,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Album belongs to an artist.
type Album struct {
	ID          string `json:"id"`
	ArtistID    string `json:"artist_id,omitempty"`
	Title       string `json:"title"`
	ReleaseYear *int   `json:"release_year,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Song belongs to an album.
type Song struct {
	ID          string `json:"id"`
	AlbumID     string `json:"album_id,omitempty"`
	Title       string `json:"title"`
	Duration    *int   `json:"duration,omitempty"`
	TrackNumber *int   `json:"track_number,omitempty"`
}

// Curation is a user's rating of an album or song.
type Curation struct {
	ID                     string     `json:"id,omitempty"`
	UserID                 string     `json:"user_id"`
	CuratedItemID          string     `json:"curated_item_id"`
	ItemType               string     `json:"item_type"`
	Rating                 *int       `json:"rating,omitempty"`
	Comment                *string    `json:"comment,omitempty"`
	WeightedRankPercentage *int       `json:"weighted_rank_percentage,omitempty"`
	UpdatedAt              *time.Time `json:"updated_at,omitempty"`
}

// SearchRequest is the body of POST /music/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult lists matching artists.
type SearchResult struct {
	Items []Artist `json:"items"`
}

// UserArtist is the body of POST /music/set-primary-artist.
type UserArtist struct {
	UserID   string `json:"user_id"`
	ArtistID string `json:"artist_id"`
}

// CurationSubmission is the body of POST /music/curate.
type CurationSubmission struct {
	ItemID                 string  `json:"item_id"`
	ItemType               string  `json:"item_type"`
	Rating                 int     `json:"rating"`
	Comment                *string `json:"comment,omitempty"`
	WeightedRankPercentage *int    `json:"weighted_rank_percentage,omitempty"`
}

// CurationResponse is returned after a curation upsert.
type CurationResponse struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Curation Curation `json:"curation"`
}
