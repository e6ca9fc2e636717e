package models

import "time"

// GlobalScope is the chat scope that is not tied to a session
const GlobalScope = "global"

// ChatMessage is an immutable chat post. SessionID nil means the global feed.
type ChatMessage struct {
	ID         string    `json:"id" db:"id"`
	SessionID  *string   `json:"sessionId,omitempty" db:"session_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	AuthorName string    `json:"authorName" db:"-"`
}

// ReactionKey identifies one emoji reaction by one user on one message
type ReactionKey struct {
	MessageID string
	UserID    string
	Emoji     string
}

// ReactionSummary aggregates reactions of one emoji on a message
type ReactionSummary struct {
	MessageID string   `json:"-"`
	Emoji     string   `json:"emoji"`
	Count     int      `json:"count"`
	UserIDs   []string `json:"userIds"`
}

// ReadReceipt is the last time a user read a chat scope
type ReadReceipt struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	SessionID  *string   `json:"sessionId,omitempty" db:"session_id"`
	LastReadAt time.Time `json:"lastReadAt" db:"last_read_at"`
}
