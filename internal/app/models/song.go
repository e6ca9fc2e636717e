package models

import "time"

// SongStatus is the lifecycle state of a song in the library
type SongStatus string

const (
	SongStatusActive   SongStatus = "active"
	SongStatusArchived SongStatus = "archived"
	SongStatusProposed SongStatus = "proposed"
)

// Valid reports whether s is a known song status
func (s SongStatus) Valid() bool {
	switch s {
	case SongStatusActive, SongStatusArchived, SongStatusProposed:
		return true
	}
	return false
}

// Song is a reusable library entry that can be placed on set-lists
type Song struct {
	ID        string     `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Artist    string     `json:"artist" db:"artist"`
	Key       string     `json:"key" db:"key" example:"Em"`
	Tempo     *int       `json:"tempo,omitempty" db:"tempo" example:"120"`
	Status    SongStatus `json:"status" db:"status"`
	Link      string     `json:"link" db:"link"`
	Notes     string     `json:"notes" db:"notes"`
	CreatedBy *string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`

	CapabilityIDs []string `json:"capabilityIds" db:"-"`
	VoteCount     int      `json:"voteCount" db:"-"`
	Voted         bool     `json:"voted" db:"-"`
}

// SongVoteKey identifies one user's vote on one song
type SongVoteKey struct {
	SongID string
	UserID string
}
