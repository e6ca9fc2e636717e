package models

import "time"

// Session is a scheduled rehearsal
type Session struct {
	ID        string    `json:"id" db:"id"`
	Date      time.Time `json:"date" db:"date"`
	StartTime string    `json:"startTime" db:"start_time" example:"18:30"`
	EndTime   string    `json:"endTime" db:"end_time" example:"21:00"`
	Title     string    `json:"title" db:"title"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedBy *string   `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	CommitmentCount int `json:"commitmentCount" db:"-"`
}

// Commitment records that a user will attend a session
type Commitment struct {
	ID            string    `json:"id" db:"id"`
	SessionID     string    `json:"sessionId" db:"session_id"`
	UserID        string    `json:"userId" db:"user_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	CapabilityIDs []string  `json:"capabilityIds" db:"-"`
}

// RosterEntry is a commitment joined with the committed user's contact details
type RosterEntry struct {
	Commitment
	UserName  string  `json:"userName"`
	UserEmail string  `json:"-"`
	UserPhone *string `json:"-"`
}

// SetListEntry is a song placed on a session's set-list
type SetListEntry struct {
	ID       string `json:"id" db:"id"`
	SongID   string `json:"songId" db:"song_id"`
	Position int    `json:"position" db:"position"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
}
