package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/validation"
)

// FeedbackService is the feedback board
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, actor models.Actor, req *dto.SubmitFeedbackRequest) (*models.Feedback, error)
	ListFeedback(ctx context.Context, actor models.Actor, status *models.FeedbackStatus) ([]models.Feedback, error)
	VoteFeedback(ctx context.Context, actor models.Actor, id string, vote models.VoteType) (*models.Feedback, error)
	ReplyFeedback(ctx context.Context, actor models.Actor, id, message string) (*models.FeedbackReply, error)
	SetFeedbackStatus(ctx context.Context, actor models.Actor, id string, status models.FeedbackStatus) error
}

type feedbackServiceImpl struct {
	feedback FeedbackStore
	votes    FeedbackVoteStore
	logger   zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedback FeedbackStore, votes FeedbackVoteStore, logger zerolog.Logger) FeedbackService {
	return &feedbackServiceImpl{feedback: feedback, votes: votes, logger: logger}
}

// SubmitFeedback files a new item in the pending state
func (s *feedbackServiceImpl) SubmitFeedback(ctx context.Context, actor models.Actor, req *dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if !validation.CompiledPatterns.FeedbackCategory.MatchString(category) {
		return nil, apperrors.NewBadRequestError("category must be a short lowercase slug")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperrors.NewBadRequestError("message must not be empty")
	}

	f := &models.Feedback{
		UserID:   actor.UserID,
		Category: category,
		Message:  message,
		Status:   models.FeedbackStatusPending,
		Replies:  []models.FeedbackReply{},
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		s.logger.Error().Err(err).Msg("Failed to submit feedback")
		return nil, err
	}
	return f, nil
}

// ListFeedback returns items with tallies, the actor's vote and replies
func (s *feedbackServiceImpl) ListFeedback(ctx context.Context, actor models.Actor, status *models.FeedbackStatus) ([]models.Feedback, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewBadRequestError("status must be pending, rejected, in_progress or completed")
	}

	items, err := s.feedback.List(ctx, status, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list feedback")
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
		if items[i].Replies == nil {
			items[i].Replies = []models.FeedbackReply{}
		}
	}

	replies, err := s.feedback.Replies(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load feedback replies")
		return nil, err
	}
	for _, r := range replies {
		if i, ok := index[r.FeedbackID]; ok {
			items[i].Replies = append(items[i].Replies, r)
		}
	}
	return items, nil
}

// VoteFeedback sets, replaces or clears the actor's vote. There is at most
// one vote per user and item.
func (s *feedbackServiceImpl) VoteFeedback(ctx context.Context, actor models.Actor, id string, vote models.VoteType) (*models.Feedback, error) {
	if _, err := s.feedback.GetByID(ctx, id, actor.UserID); err != nil {
		return nil, err
	}

	var err error
	switch vote {
	case models.VoteNone:
		err = s.votes.Delete(ctx, id, actor.UserID)
	case models.VoteUp, models.VoteDown:
		err = s.votes.Upsert(ctx, id, actor.UserID, vote)
	default:
		return nil, apperrors.NewBadRequestError("voteType must be up, down or none")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("feedbackID", id).Str("vote", string(vote)).Msg("Failed to record feedback vote")
		return nil, err
	}

	return s.feedback.GetByID(ctx, id, actor.UserID)
}

// ReplyFeedback adds an admin reply
func (s *feedbackServiceImpl) ReplyFeedback(ctx context.Context, actor models.Actor, id, message string) (*models.FeedbackReply, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can reply to feedback")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewBadRequestError("message must not be empty")
	}
	if _, err := s.feedback.GetByID(ctx, id, actor.UserID); err != nil {
		return nil, err
	}

	reply := &models.FeedbackReply{FeedbackID: id, UserID: actor.UserID, Message: message}
	if err := s.feedback.CreateReply(ctx, reply); err != nil {
		s.logger.Error().Err(err).Str("feedbackID", id).Msg("Failed to reply to feedback")
		return nil, err
	}
	return reply, nil
}

// SetFeedbackStatus moves an item through its workflow
func (s *feedbackServiceImpl) SetFeedbackStatus(ctx context.Context, actor models.Actor, id string, status models.FeedbackStatus) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Only admins can change feedback status")
	}
	if !status.Valid() {
		return apperrors.NewBadRequestError("status must be pending, rejected, in_progress or completed")
	}
	if err := s.feedback.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info().Str("feedbackID", id).Str("status", string(status)).Msg("Feedback status changed")
	return nil
}
