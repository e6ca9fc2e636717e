package dto

import (
	"time"

	"github.com/yigit/bandhub/internal/app/models"
)

// CreateChatMessageRequest posts to a chat scope
type CreateChatMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// GetChatMessagesRequest filters a chat scope listing
type GetChatMessagesRequest struct {
	Before *time.Time
	Limit  int
}

// ReactionRequest toggles an emoji reaction
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=32"`
}

// ChatMessageResponse is a message with its reactions
type ChatMessageResponse struct {
	ID         string                   `json:"id"`
	Scope      string                   `json:"scope"`
	UserID     string                   `json:"userId"`
	AuthorName string                   `json:"authorName"`
	Content    string                   `json:"content"`
	CreatedAt  time.Time                `json:"createdAt"`
	Reactions  []models.ReactionSummary `json:"reactions"`
}

// UnreadCountResponse is the number of unseen global messages
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// ToChatMessageResponse converts a message model
func ToChatMessageResponse(m *models.ChatMessage, reactions []models.ReactionSummary) ChatMessageResponse {
	scope := models.GlobalScope
	if m.SessionID != nil {
		scope = *m.SessionID
	}
	if reactions == nil {
		reactions = []models.ReactionSummary{}
	}
	return ChatMessageResponse{
		ID:         m.ID,
		Scope:      scope,
		UserID:     m.UserID,
		AuthorName: m.AuthorName,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		Reactions:  reactions,
	}
}
