package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
	"github.com/yigit/bandhub/internal/pkg/helpers"
)

// ChatController handles chat message operations
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// GetChatMessages godoc
// @Summary Get chat messages
// @Description Messages in a scope, newest first. The scope is "global" or a session ID.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param scope path string true "global or a session ID"
// @Param before query string false "Only messages before this timestamp (RFC3339)"
// @Param limit query int false "Maximum number of messages (default: 50)" default(50)
// @Success 200 {object} dto.APIResponse{data=[]dto.ChatMessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail} "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Session not found"
// @Router /chat/scopes/{scope}/messages [get]
func (c *ChatController) GetChatMessages(ctx *gin.Context) {
	filter := &dto.GetChatMessagesRequest{Limit: helpers.ParseLimitParam(ctx)}

	before, ok := parseTimeQuery(ctx, "before")
	if !ok {
		return
	}
	filter.Before = before

	messages, err := c.chatService.ListMessages(ctx.Request.Context(), ctx.Param("scope"), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if messages == nil {
		messages = []dto.ChatMessageResponse{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// SendChatMessage godoc
// @Summary Send a chat message
// @Description Stores the message and broadcasts it to websocket clients of the scope
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scope path string true "global or a session ID"
// @Param request body dto.CreateChatMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.ChatMessageResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail} "Empty message"
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Session not found"
// @Router /chat/scopes/{scope}/messages [post]
func (c *ChatController) SendChatMessage(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateChatMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.chatService.PostMessage(ctx.Request.Context(), actor, ctx.Param("scope"), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// MarkRead godoc
// @Summary Mark a scope as read
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param scope path string true "global or a session ID"
// @Success 200 {object} dto.APIResponse{data=models.ReadReceipt}
// @Router /chat/scopes/{scope}/read [post]
func (c *ChatController) MarkRead(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	receipt, err := c.chatService.MarkRead(ctx.Request.Context(), actor, ctx.Param("scope"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(receipt))
}

// ToggleReaction godoc
// @Summary Toggle a reaction
// @Description Adds the emoji reaction if absent, removes it if present
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path string true "Message ID"
// @Param request body dto.ReactionRequest true "Emoji"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail} "Message not found"
// @Router /chat/messages/{messageId}/reactions [post]
func (c *ChatController) ToggleReaction(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.ReactionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.chatService.ToggleReaction(ctx.Request.Context(), actor, ctx.Param("messageId"), req.Emoji)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToggleResponse{Result: string(result)}))
}

// UnreadCount godoc
// @Summary Count unread global messages
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /chat/unread [get]
func (c *ChatController) UnreadCount(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	count, err := c.chatService.CountUnreadGlobal(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: count}))
}
