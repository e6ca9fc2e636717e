package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// UserController handles the user directory and the approval gate
type UserController struct {
	userService      services.UserService
	dashboardService services.DashboardService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService, dashboardService services.DashboardService) *UserController {
	return &UserController{
		userService:      userService,
		dashboardService: dashboardService,
	}
}

// GetProfile returns the caller's own account
// @Summary Get my profile
// @Description Returns the caller's account. Available while the account is still pending.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	profile, err := c.userService.GetProfile(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateProfile changes the caller's name and phone
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// ListUsers lists accounts
// @Summary List users
// @Description Lists accounts, optionally filtered by approval status. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users"
// @Failure 400 {object} dto.APIResponse "Invalid status"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var status *models.UserStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.UserStatus(raw)
		switch s {
		case models.UserStatusPending, models.UserStatusApproved, models.UserStatusRejected:
			status = &s
		default:
			badQuery(ctx, "status", "status must be pending, approved or rejected")
			return
		}
	}

	users, err := c.userService.ListUsers(ctx.Request.Context(), actor, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users))
}

// SetUserStatus approves or rejects users
// @Summary Approve or reject users
// @Description Sets the status of every listed user. When approving with a capability list, each user's capabilities are replaced by it. Users are processed in order without rollback.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetUserStatusRequest true "Users and action"
// @Success 200 {object} dto.APIResponse{data=dto.SetUserStatusResponse} "Users updated"
// @Failure 400 {object} dto.APIResponse "Missing userIds or unknown action"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /users/status [post]
func (c *UserController) SetUserStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SetUserStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.userService.SetUserStatus(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListUserCapabilities returns a user's capabilities
// @Summary List a user's capabilities
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Capability} "Capabilities"
// @Router /users/{userId}/capabilities [get]
func (c *UserController) ListUserCapabilities(ctx *gin.Context) {
	caps, err := c.userService.ListUserCapabilities(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if caps == nil {
		caps = []models.Capability{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(caps))
}

// SetUserCapabilities replaces a user's capabilities
// @Summary Replace a user's capabilities
// @Description Users may change their own set; admins may change anyone's.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param request body dto.SetCapabilitiesRequest true "Capability IDs"
// @Success 200 {object} dto.APIResponse "Capabilities replaced"
// @Failure 400 {object} dto.APIResponse "Unknown capability"
// @Failure 403 {object} dto.APIResponse "Not your account"
// @Router /users/{userId}/capabilities [put]
func (c *UserController) SetUserCapabilities(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SetCapabilitiesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SetUserCapabilities(ctx.Request.Context(), actor, ctx.Param("userId"), req.CapabilityIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Capabilities updated"))
}

// Dashboard returns the admin overview
// @Summary Admin dashboard
// @Description Pending users, upcoming sessions, active songs and open feedback
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Overview"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *UserController) Dashboard(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	stats, err := c.dashboardService.Stats(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}
