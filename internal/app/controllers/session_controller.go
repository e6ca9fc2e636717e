package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// SessionController handles rehearsal sessions and their set-lists
type SessionController struct {
	sessionService    services.SessionService
	commitmentService services.CommitmentService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService, commitmentService services.CommitmentService) *SessionController {
	return &SessionController{
		sessionService:    sessionService,
		commitmentService: commitmentService,
	}
}

// CreateSession schedules a rehearsal
// @Summary Create session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Date and time window"
// @Success 201 {object} dto.APIResponse{data=models.Session} "Created"
// @Failure 400 {object} dto.APIResponse "Invalid date or time window"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.sessionService.CreateSession(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(session))
}

// ListSessions lists upcoming sessions
// @Summary List sessions
// @Description Sessions on or after the given date, defaulting to today
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD or RFC 3339"
// @Success 200 {object} dto.APIResponse{data=[]models.Session} "Sessions in date order"
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	from, ok := parseTimeQuery(ctx, "from")
	if !ok {
		return
	}

	sessions, err := c.sessionService.ListSessions(ctx.Request.Context(), from)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sessions))
}

// GetSession returns a session with its set-list and roster
// @Summary Get session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionDetailResponse} "Session"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /sessions/{sessionId} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	detail, err := c.sessionService.GetSession(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// DeleteSession removes a session
// @Summary Delete session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /sessions/{sessionId} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.sessionService.DeleteSession(ctx.Request.Context(), actor, ctx.Param("sessionId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Session deleted"))
}

// AddSong appends a song to the set-list
// @Summary Add song to set-list
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.AddSetListSongRequest true "Song"
// @Success 201 {object} dto.APIResponse{data=models.SetListEntry} "Added"
// @Failure 404 {object} dto.APIResponse "Session or song not found"
// @Failure 409 {object} dto.APIResponse "Already on the set-list"
// @Router /sessions/{sessionId}/songs [post]
func (c *SessionController) AddSong(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.AddSetListSongRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.sessionService.AddSongToSession(ctx.Request.Context(), actor, ctx.Param("sessionId"), req.SongID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(entry))
}

// RemoveSong takes a song off the set-list
// @Summary Remove song from set-list
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param songId path string true "Song ID"
// @Success 200 {object} dto.APIResponse "Removed"
// @Failure 404 {object} dto.APIResponse "Not on the set-list"
// @Router /sessions/{sessionId}/songs/{songId} [delete]
func (c *SessionController) RemoveSong(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.sessionService.RemoveSongFromSession(ctx.Request.Context(), actor, ctx.Param("sessionId"), ctx.Param("songId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Song removed from set-list"))
}

// ReorderSongs rewrites set-list positions
// @Summary Reorder set-list
// @Description songIds must contain exactly the songs already on the set-list
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.ReorderSetListRequest true "New order"
// @Success 200 {object} dto.APIResponse{data=[]models.SetListEntry} "Set-list in new order"
// @Failure 400 {object} dto.APIResponse "Song list does not match"
// @Router /sessions/{sessionId}/songs/order [put]
func (c *SessionController) ReorderSongs(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.ReorderSetListRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entries, err := c.sessionService.ReorderSetList(ctx.Request.Context(), actor, ctx.Param("sessionId"), req.SongIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(entries))
}

// Commit records attendance with the capabilities the user brings
// @Summary Commit to a session
// @Description userId defaults to the caller. Only admins may commit on behalf of someone else.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.CommitRequest true "Commitment"
// @Success 201 {object} dto.APIResponse{data=models.Commitment} "Committed"
// @Failure 403 {object} dto.APIResponse "Not your commitment"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Failure 409 {object} dto.APIResponse "Already committed"
// @Router /sessions/{sessionId}/commitments [post]
func (c *SessionController) Commit(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CommitRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	commitment, err := c.commitmentService.CreateCommitment(ctx.Request.Context(), actor, ctx.Param("sessionId"), req.UserID, req.CapabilityIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(commitment))
}

// Withdraw removes a commitment
// @Summary Withdraw from a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param userId query string false "Defaults to the caller"
// @Success 200 {object} dto.APIResponse "Withdrawn"
// @Failure 403 {object} dto.APIResponse "Not your commitment"
// @Failure 404 {object} dto.APIResponse "No commitment"
// @Router /sessions/{sessionId}/commitments [delete]
func (c *SessionController) Withdraw(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.commitmentService.DeleteCommitment(ctx.Request.Context(), actor, ctx.Param("sessionId"), ctx.Query("userId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Commitment withdrawn"))
}
