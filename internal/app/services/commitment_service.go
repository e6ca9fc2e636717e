package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

// CommitmentService records who will attend which session
type CommitmentService interface {
	CreateCommitment(ctx context.Context, actor models.Actor, sessionID, userID string, capabilityIDs []string) (*models.Commitment, error)
	DeleteCommitment(ctx context.Context, actor models.Actor, sessionID, userID string) error
}

type commitmentServiceImpl struct {
	sessions    SessionStore
	commitments CommitmentStore
	logger      zerolog.Logger
}

// NewCommitmentService creates a new CommitmentService
func NewCommitmentService(sessions SessionStore, commitments CommitmentStore, logger zerolog.Logger) CommitmentService {
	return &commitmentServiceImpl{sessions: sessions, commitments: commitments, logger: logger}
}

// CreateCommitment pledges userID to a session together with the capabilities
// they bring. A commitment never outlives a failed capability insert: the row
// is deleted again and the failure is reported as an upstream error.
func (s *commitmentServiceImpl) CreateCommitment(ctx context.Context, actor models.Actor, sessionID, userID string, capabilityIDs []string) (*models.Commitment, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if !actor.CanActFor(userID) {
		return nil, apperrors.NewForbiddenError("You can only commit yourself to a session")
	}

	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	commitment := &models.Commitment{SessionID: sessionID, UserID: userID}
	if err := s.commitments.Create(ctx, commitment); err != nil {
		if !apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceNotFound) {
			s.logger.Error().Err(err).Str("sessionID", sessionID).Str("userID", userID).Msg("Failed to create commitment")
		}
		return nil, err
	}

	if err := s.commitments.AddCapabilities(ctx, commitment.ID, capabilityIDs); err != nil {
		s.logger.Error().Err(err).
			Str("commitmentID", commitment.ID).
			Strs("capabilityIDs", capabilityIDs).
			Msg("Failed to record commitment capabilities")

		if delErr := s.commitments.DeleteByID(ctx, commitment.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("commitmentID", commitment.ID).
				Msg("Recovery failed: commitment left without capabilities")
		} else {
			s.logger.Warn().Str("commitmentID", commitment.ID).
				Str("sessionID", sessionID).Str("userID", userID).
				Msg("Recovery: removed commitment after capability insert failure")
		}
		return nil, apperrors.NewUpstreamError("Failed to save commitment", err)
	}

	commitment.CapabilityIDs = capabilityIDs
	if commitment.CapabilityIDs == nil {
		commitment.CapabilityIDs = []string{}
	}
	s.logger.Info().Str("sessionID", sessionID).Str("userID", userID).Msg("Commitment created")
	return commitment, nil
}

// DeleteCommitment withdraws a pledge; capability rows go with it
func (s *commitmentServiceImpl) DeleteCommitment(ctx context.Context, actor models.Actor, sessionID, userID string) error {
	if userID == "" {
		userID = actor.UserID
	}
	if !actor.CanActFor(userID) {
		return apperrors.NewForbiddenError("You can only withdraw your own commitment")
	}
	if err := s.commitments.Delete(ctx, sessionID, userID); err != nil {
		return err
	}
	s.logger.Info().Str("sessionID", sessionID).Str("userID", userID).Msg("Commitment deleted")
	return nil
}
