package dto

import "github.com/yigit/bandhub/internal/app/models"

// CreateSongRequest adds a song to the library
type CreateSongRequest struct {
	Title         string            `json:"title" binding:"required,max=200"`
	Artist        string            `json:"artist" binding:"required,max=200"`
	Key           string            `json:"key" binding:"omitempty,max=12"`
	Tempo         *int              `json:"tempo" binding:"omitempty,min=20,max=400"`
	Status        models.SongStatus `json:"status"`
	Link          string            `json:"link" binding:"omitempty,url"`
	Notes         string            `json:"notes" binding:"omitempty,max=2000"`
	CapabilityIDs []string          `json:"capabilityIds"`
}

// UpdateSongRequest edits song fields. Nil fields are left unchanged.
type UpdateSongRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=200"`
	Artist *string `json:"artist" binding:"omitempty,max=200"`
	Key    *string `json:"key" binding:"omitempty,max=12"`
	Tempo  *int    `json:"tempo" binding:"omitempty,min=20,max=400"`
	Link   *string `json:"link" binding:"omitempty,url"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// SetSongStatusRequest moves a song between library states
type SetSongStatusRequest struct {
	Status models.SongStatus `json:"status" binding:"required"`
}

// SetCapabilitiesRequest replaces a capability set
type SetCapabilitiesRequest struct {
	CapabilityIDs []string `json:"capabilityIds"`
}

// SuggestSongsRequest asks the completion API for ideas
type SuggestSongsRequest struct {
	Prompt string `json:"prompt" binding:"required,max=500"`
	Count  int    `json:"count" binding:"omitempty,min=1,max=20"`
}

// SongSuggestion is one suggested song
type SongSuggestion struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Key    string `json:"key"`
	Tempo  int    `json:"tempo"`
	Link   string `json:"link"`
}
