package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// FeedbackController handles the feedback board
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// ListFeedback lists feedback items
// @Summary List feedback
// @Description Items with vote totals, the caller's vote and admin replies
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, in_progress, completed or rejected"
// @Success 200 {object} dto.APIResponse{data=[]models.Feedback} "Feedback"
// @Router /feedback [get]
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var status *models.FeedbackStatus
	if raw := optionalQuery(ctx, "status"); raw != nil {
		s := models.FeedbackStatus(*raw)
		if !s.Valid() {
			badQuery(ctx, "status", "status is not a known feedback status")
			return
		}
		status = &s
	}

	items, err := c.feedbackService.ListFeedback(ctx.Request.Context(), actor, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if items == nil {
		items = []models.Feedback{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// SubmitFeedback creates a feedback item
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} dto.APIResponse{data=models.Feedback} "Created"
// @Failure 400 {object} dto.APIResponse "Unknown category"
// @Router /feedback [post]
func (c *FeedbackController) SubmitFeedback(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SubmitFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.feedbackService.SubmitFeedback(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(item))
}

// Vote sets, replaces or clears the caller's vote
// @Summary Vote on feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Param request body dto.VoteFeedbackRequest true "up, down or none"
// @Success 200 {object} dto.APIResponse{data=models.Feedback} "Updated item"
// @Failure 400 {object} dto.APIResponse "Unknown vote type"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /feedback/{feedbackId}/vote [post]
func (c *FeedbackController) Vote(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.VoteFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	item, err := c.feedbackService.VoteFeedback(ctx.Request.Context(), actor, ctx.Param("feedbackId"), req.VoteType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(item))
}

// Reply adds an admin reply
// @Summary Reply to feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Param request body dto.ReplyFeedbackRequest true "Reply"
// @Success 201 {object} dto.APIResponse{data=models.FeedbackReply} "Created"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /feedback/{feedbackId}/replies [post]
func (c *FeedbackController) Reply(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.ReplyFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reply, err := c.feedbackService.ReplyFeedback(ctx.Request.Context(), actor, ctx.Param("feedbackId"), req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reply))
}

// SetStatus transitions a feedback item
// @Summary Set feedback status
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedbackId path string true "Feedback ID"
// @Param request body dto.SetFeedbackStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse "Updated"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /feedback/{feedbackId}/status [put]
func (c *FeedbackController) SetStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SetFeedbackStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.feedbackService.SetFeedbackStatus(ctx.Request.Context(), actor, ctx.Param("feedbackId"), req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Feedback status updated"))
}
