package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/auth"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService, stubUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, RefreshTokenExp: time.Hour})
	users := stubUsers{
		"pending": {ID: "pending", Email: "p@example.com", Status: models.UserStatusPending, Role: models.RoleUser},
		"member":  {ID: "member", Email: "m@example.com", Status: models.UserStatusApproved, Role: models.RoleUser},
		"admin":   {ID: "admin", Email: "a@example.com", Status: models.UserStatusApproved, Role: models.RoleAdmin},
	}
	m := NewAuthMiddleware(jwtService, users)

	r := gin.New()
	ok := func(c *gin.Context) {
		actor, _ := CurrentActor(c)
		c.JSON(http.StatusOK, dto.NewSuccessResponse(actor.UserID))
	}
	r.GET("/me", m.JWTAuth(), m.Authenticated(), ok)
	r.GET("/songs", m.JWTAuth(), m.ApprovedRequired(), ok)
	r.GET("/admin", m.JWTAuth(), m.ApprovedRequired(), m.AdminRequired(), ok)
	return r, jwtService, users
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	return pair.AccessToken
}

func TestApprovalGate(t *testing.T) {
	r, jwtService, users := newTestRouter(t)

	tests := []struct {
		path   string
		userID string
		status int
		code   dto.ErrorCode
	}{
		{"/songs", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"/me", "pending", http.StatusOK, ""},
		{"/songs", "pending", http.StatusForbidden, dto.ErrorCodeAccountPending},
		{"/songs", "member", http.StatusOK, ""},
		{"/admin", "member", http.StatusForbidden, dto.ErrorCodeForbidden},
		{"/admin", "admin", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s as %q", tt.path, tt.userID), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.userID != "" {
				req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, users[tt.userID]))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.code == "" {
				return
			}
			var resp dto.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestStatusChangeAppliesWithoutNewToken(t *testing.T) {
	r, jwtService, users := newTestRouter(t)
	token := tokenFor(t, jwtService, users["member"])
	users["member"].Status = models.UserStatusRejected

	req := httptest.NewRequest(http.MethodGet, "/songs?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 once the account is rejected", w.Code)
	}
}

func TestHandleAPIErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NewResourceNotFoundError("session not found"), http.StatusNotFound, "session not found"},
		{"forbidden", apperrors.NewForbiddenError("admins only"), http.StatusForbidden, "admins only"},
		{"bad request", apperrors.NewBadRequestError("userIds must not be empty"), http.StatusBadRequest, "userIds must not be empty"},
		{"conflict", apperrors.NewConflictError("already committed"), http.StatusConflict, "already committed"},
		{"quota", apperrors.NewQuotaExceededError("try later", apperrors.ErrBadRequest), http.StatusTooManyRequests, "try later"},
		{"unparseable", apperrors.NewUnparseableError("bad answer", nil), http.StatusBadGateway, "bad answer"},
		{"upstream with joined cause", apperrors.NewUpstreamError("Failed to save commitment", apperrors.ErrBadRequest), http.StatusInternalServerError, "Failed to save commitment"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"plain", fmt.Errorf("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, fmt.Errorf("controller: %w", tt.err))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var resp dto.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error == nil || resp.Error.Message != tt.message {
				t.Errorf("error = %+v, want message %q", resp.Error, tt.message)
			}
		})
	}
}

func TestBindJSONReportsFirstInvalidField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Body = http.NoBody
	c.Request.Header.Set("Content-Type", "application/json")

	var req dto.CreateCapabilityRequest
	if BindJSON(c, &req) {
		t.Fatal("empty body should not bind")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}
