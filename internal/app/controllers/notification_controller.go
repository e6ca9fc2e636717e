package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// NotificationController sends session invites and reminders
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// SendInvites emails a session invite
// @Summary Send session invites
// @Description One email per recipient. Addresses come from the user directory; candidates only supply display names. Leave userIds empty to invite every candidate.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.SendInvitesRequest true "Recipients"
// @Success 200 {object} dto.APIResponse{data=[]dto.InviteResult} "Outcome per recipient"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /sessions/{sessionId}/invites [post]
func (c *NotificationController) SendInvites(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SendInvitesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	results, err := c.notificationService.SendInvites(ctx.Request.Context(), actor, ctx.Param("sessionId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if results == nil {
		results = []dto.InviteResult{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// SendReminders texts committed members
// @Summary Send SMS reminders
// @Description Texts every committed member with a usable phone number. The default message gives the date and time window.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.SendSMSRequest false "Optional message"
// @Success 200 {object} dto.APIResponse{data=dto.SMSReport} "Tally"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /sessions/{sessionId}/reminders [post]
func (c *NotificationController) SendReminders(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SendSMSRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	report, err := c.notificationService.SendSMSReminder(ctx.Request.Context(), actor, ctx.Param("sessionId"), req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}
