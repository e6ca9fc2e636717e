package dto

import "github.com/yigit/bandhub/internal/app/models"

// SubmitFeedbackRequest creates a feedback item
type SubmitFeedbackRequest struct {
	Category string `json:"category" binding:"required,max=40" example:"feature"`
	Message  string `json:"message" binding:"required,max=4000"`
}

// VoteFeedbackRequest sets, replaces or clears the caller's vote
type VoteFeedbackRequest struct {
	VoteType models.VoteType `json:"voteType" binding:"required" enums:"up,down,none"`
}

// ReplyFeedbackRequest adds an admin reply
type ReplyFeedbackRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// SetFeedbackStatusRequest transitions a feedback item
type SetFeedbackStatusRequest struct {
	Status models.FeedbackStatus `json:"status" binding:"required"`
}
