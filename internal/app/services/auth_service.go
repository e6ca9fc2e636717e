package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/auth"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"github.com/yigit/bandhub/internal/pkg/validation"
)

// AuthService handles registration, login and token rotation
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authServiceImpl struct {
	users      UserStore
	tokens     TokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a pending account. An admin must approve it before it can
// use anything beyond its own profile.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if !validation.NewStringValidation(req.Password).WithMinLength(validation.PasswordMinLength).Validate() {
		return nil, apperrors.NewBadRequestError("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
		Name:     strings.TrimSpace(req.Name),
		Phone:    helpers.NullIfEmpty(req.Phone),
		Status:   models.UserStatusPending,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Msg("User registered, awaiting approval")
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Login verifies credentials, stamps the sign-in time and issues tokens
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusRejected {
		return nil, apperrors.NewForbiddenError("This account has been rejected")
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastSignIn(ctx, user.ID, now); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to record sign-in")
		return nil, err
	}
	user.LastSignInAt = &now

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: *tokens, User: dto.ToUserResponse(user)}, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to revoke rotated refresh token")
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.RevokeToken(ctx, refreshToken)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to generate tokens")
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to store refresh token")
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
