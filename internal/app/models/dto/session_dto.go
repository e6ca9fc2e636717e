package dto

import "github.com/yigit/bandhub/internal/app/models"

// CreateSessionRequest schedules a rehearsal
type CreateSessionRequest struct {
	Date      string `json:"date" binding:"required" example:"2025-06-02"`
	StartTime string `json:"startTime" binding:"required" example:"18:30"`
	EndTime   string `json:"endTime" binding:"required" example:"21:00"`
	Title     string `json:"title" binding:"omitempty,max=120"`
	Notes     string `json:"notes" binding:"omitempty,max=2000"`
}

// SessionDetailResponse is a session with its set-list and roster
type SessionDetailResponse struct {
	models.Session
	SetList []models.SetListEntry `json:"setList"`
	Roster  []models.RosterEntry  `json:"roster"`
}

// CommitRequest declares which capabilities the user brings
type CommitRequest struct {
	UserID        string   `json:"userId"`
	CapabilityIDs []string `json:"capabilityIds"`
}

// AddSetListSongRequest appends a song to a set-list
type AddSetListSongRequest struct {
	SongID string `json:"songId" binding:"required"`
}

// ReorderSetListRequest gives the full set-list in its new order
type ReorderSetListRequest struct {
	SongIDs []string `json:"songIds" binding:"required"`
}
