package models

import "time"

// MediaKind selects between session photos and recordings
type MediaKind string

const (
	MediaPhoto     MediaKind = "photo"
	MediaRecording MediaKind = "recording"
)

// Valid reports whether k is a known media kind
func (k MediaKind) Valid() bool {
	return k == MediaPhoto || k == MediaRecording
}

// Media is a metadata row pointing at an object in storage
type Media struct {
	ID          string    `json:"id" db:"id"`
	SessionID   string    `json:"sessionId" db:"session_id"`
	Kind        MediaKind `json:"kind" db:"kind"`
	UserID      string    `json:"userId" db:"user_id"`
	StoragePath string    `json:"storagePath" db:"storage_path"`
	URL         string    `json:"url" db:"-"`
	Caption     string    `json:"caption" db:"caption"`
	ContentType string    `json:"contentType" db:"content_type"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
