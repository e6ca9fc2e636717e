package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/auth"
	"github.com/yigit/bandhub/internal/pkg/logger"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextActor  = "actor"
)

// UserLookup loads the current state of an account
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

func abortWith(c *gin.Context, status int, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message)
	if details != "" {
		errorDetail = errorDetail.WithDetails(details)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Browsers cannot set headers on websocket upgrades, so accept ?token=
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		var tokenString string
		if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader
		} else {
			var err error
			tokenString, err = auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
			if err != nil {
				abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
				return
			}
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			} else if errors.Is(err, apperrors.ErrInvalidFormat) {
				errorDetails = "Invalid token format"
			}
			abortWith(c, http.StatusUnauthorized, errorCode, "Authentication failed", errorDetails)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// loadActor resolves the caller from the directory so that status and role
// changes apply immediately, not when the token is next refreshed
func (m *AuthMiddleware) loadActor(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "User information not found")
		return models.Actor{}, false
	}

	user, err := m.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrResourceNotFound) {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Account no longer exists")
			return models.Actor{}, false
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Failed to load caller")
		abortWith(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", "")
		return models.Actor{}, false
	}

	actor := user.Actor()
	c.Set(ContextActor, actor)
	return actor, true
}

// Authenticated loads the caller whatever their approval status. Used for the
// caller's own profile, which pending users may see.
func (m *AuthMiddleware) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.loadActor(c); !ok {
			return
		}
		c.Next()
	}
}

// ApprovedRequired rejects callers whose account is not approved
func (m *AuthMiddleware) ApprovedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := m.loadActor(c)
		if !ok {
			return
		}
		if actor.Status != models.UserStatusApproved {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeAccountPending, "Account not approved",
				"An admin must approve your account before you can use this resource")
			return
		}
		c.Next()
	}
}

// AdminRequired rejects callers without the admin role. It must run after
// ApprovedRequired.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}
		if !actor.IsAdmin() {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied",
				"You don't have sufficient permissions for this operation")
			return
		}
		c.Next()
	}
}

// CurrentActor returns the caller placed in the context by the auth middleware
func CurrentActor(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActor)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
