package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/helpers"
)

// Approval actions accepted by SetUserStatus
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// UserService is the user directory and the admin approval gate
type UserService interface {
	SetUserStatus(ctx context.Context, actor models.Actor, req *dto.SetUserStatusRequest) (*dto.SetUserStatusResponse, error)
	ListUsers(ctx context.Context, actor models.Actor, status *models.UserStatus) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, actor models.Actor) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUserCapabilities(ctx context.Context, userID string) ([]models.Capability, error)
	SetUserCapabilities(ctx context.Context, actor models.Actor, userID string, capabilityIDs []string) error
}

type userServiceImpl struct {
	users    UserStore
	userCaps UserCapabilityStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, userCaps UserCapabilityStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{users: users, userCaps: userCaps, logger: logger}
}

// SetUserStatus approves or rejects every listed user. Users are processed in
// order and nothing is rolled back: when one fails, the users before it keep
// their new status and the error is returned.
func (s *userServiceImpl) SetUserStatus(ctx context.Context, actor models.Actor, req *dto.SetUserStatusRequest) (*dto.SetUserStatusResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can approve or reject users")
	}
	if len(req.UserIDs) == 0 {
		return nil, apperrors.NewBadRequestError("userIds must not be empty")
	}

	var status models.UserStatus
	switch req.Action {
	case ActionApprove:
		status = models.UserStatusApproved
	case ActionReject:
		status = models.UserStatusRejected
	default:
		return nil, apperrors.NewBadRequestError("action must be approve or reject")
	}

	replaceCaps := status == models.UserStatusApproved && req.Capabilities != nil
	updated := make([]string, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		if err := s.users.SetStatus(ctx, id, status); err != nil {
			s.logger.Error().Err(err).Str("userID", id).Str("status", string(status)).
				Int("processed", len(updated)).Msg("Failed to update user status")
			return nil, err
		}
		if replaceCaps {
			if err := s.userCaps.Replace(ctx, id, req.Capabilities); err != nil {
				s.logger.Error().Err(err).Str("userID", id).
					Int("processed", len(updated)).Msg("Failed to replace user capabilities")
				return nil, err
			}
		}
		updated = append(updated, id)
	}

	s.logger.Info().Strs("userIDs", updated).Str("status", string(status)).Str("by", actor.UserID).Msg("User status changed")
	return &dto.SetUserStatusResponse{Updated: updated, Status: string(status)}, nil
}

// ListUsers lists accounts for admins, optionally by status
func (s *userServiceImpl) ListUsers(ctx context.Context, actor models.Actor, status *models.UserStatus) ([]dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can list users")
	}
	users, err := s.users.List(ctx, status)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}
	return resp, nil
}

// GetUser loads one account
func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile returns the caller's own account
func (s *userServiceImpl) GetProfile(ctx context.Context, actor models.Actor) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes the caller's display name and phone
func (s *userServiceImpl) UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("name must not be empty")
	}
	phone := helpers.NullIfEmpty(req.Phone)
	if phone != nil && len(helpers.PhoneDigits(*phone)) < helpers.MinPhoneDigits {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("phone must have at least %d digits", helpers.MinPhoneDigits))
	}

	if err := s.users.UpdateProfile(ctx, actor.UserID, name, phone); err != nil {
		s.logger.Error().Err(err).Str("userID", actor.UserID).Msg("Failed to update profile")
		return nil, err
	}
	return s.GetProfile(ctx, actor)
}

// ListUserCapabilities returns a user's capabilities
func (s *userServiceImpl) ListUserCapabilities(ctx context.Context, userID string) ([]models.Capability, error) {
	return s.userCaps.ListForUser(ctx, userID)
}

// SetUserCapabilities replaces a user's capability set outside of approval
func (s *userServiceImpl) SetUserCapabilities(ctx context.Context, actor models.Actor, userID string, capabilityIDs []string) error {
	if !actor.CanActFor(userID) {
		return apperrors.NewForbiddenError("You can only change your own capabilities")
	}
	if err := s.userCaps.Replace(ctx, userID, capabilityIDs); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to replace user capabilities")
		return err
	}
	return nil
}
