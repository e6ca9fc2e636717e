package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

// ChatBackend validates scopes and persists inbound messages
type ChatBackend interface {
	CheckScope(ctx context.Context, scope string) error
	PostMessage(ctx context.Context, actor models.Actor, scope, content string) (*dto.ChatMessageResponse, error)
}

// ActorFunc resolves the authenticated caller of a request
type ActorFunc func(c *gin.Context) (models.Actor, bool)

// Handler for WebSocket connections
type Handler struct {
	hub     *Hub
	backend ChatBackend
	actorOf ActorFunc
	logger  zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, backend ChatBackend, actorOf ActorFunc, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		backend: backend,
		actorOf: actorOf,
		logger:  logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to a chat scope
// @Description Upgrades the connection to a WebSocket. Messages posted to the scope are pushed live; frames sent as {"content": "..."} are posted as the caller.
// @Tags chat
// @Security BearerAuth
// @Param scope query string false "global (default) or a session id"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	actor, ok := h.actorOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	scope := c.DefaultQuery("scope", models.GlobalScope)
	if err := h.backend.CheckScope(c.Request.Context(), scope); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Chat scope not found")))
			return
		}
		h.logger.Error().Err(err).Str("scope", scope).Msg("Failed to check chat scope")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to open chat")))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("scope", scope).
			Str("userID", actor.UserID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		backend: h.backend,
		conn:    conn,
		send:    make(chan []byte, 256),
		actor:   actor,
		userID:  actor.UserID,
		scope:   scope,
		logger:  h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("scope", scope).
		Str("userID", actor.UserID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
