// Package model defines data structures for the Music Besties API.
package model

import (
	"time"
)

// Profile is a user's stored profile row.
type Profile struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	AvatarURL       *string    `json:"avatar_url,omitempty"`
	PrimaryArtistID *string    `json:"primary_artist_id,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// HasPrimaryArtist reports whether the profile names a primary artist.
func (p *Profile) HasPrimaryArtist() bool {
	return p != nil && p.PrimaryArtistID != nil && *p.PrimaryArtistID != ""
}

// PrimaryArtist returns the primary artist id or "".
func (p *Profile) PrimaryArtist() string {
	if !p.HasPrimaryArtist() {
		return ""
	}
	return *p.PrimaryArtistID
}
