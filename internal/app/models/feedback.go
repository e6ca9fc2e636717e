package models

import "time"

// FeedbackStatus is the admin-controlled state of a feedback item
type FeedbackStatus string

const (
	FeedbackStatusPending    FeedbackStatus = "pending"
	FeedbackStatusRejected   FeedbackStatus = "rejected"
	FeedbackStatusInProgress FeedbackStatus = "in_progress"
	FeedbackStatusCompleted  FeedbackStatus = "completed"
)

// Valid reports whether s is a known feedback status
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackStatusPending, FeedbackStatusRejected, FeedbackStatusInProgress, FeedbackStatusCompleted:
		return true
	}
	return false
}

// VoteType is a feedback vote direction. VoteNone clears a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
	VoteNone VoteType = "none"
)

// Feedback is a user-submitted suggestion or bug report
type Feedback struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"userId" db:"user_id"`
	Category  string         `json:"category" db:"category"`
	Message   string         `json:"message" db:"message"`
	Status    FeedbackStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	UpVotes   int             `json:"upVotes" db:"-"`
	DownVotes int             `json:"downVotes" db:"-"`
	MyVote    *VoteType       `json:"myVote,omitempty" db:"-"`
	Replies   []FeedbackReply `json:"replies" db:"-"`
}

// FeedbackReply is an immutable admin answer to a feedback item
type FeedbackReply struct {
	ID         string    `json:"id" db:"id"`
	FeedbackID string    `json:"feedbackId" db:"feedback_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
