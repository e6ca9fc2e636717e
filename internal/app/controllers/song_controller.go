package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// SongController handles the song library
type SongController struct {
	songService services.SongService
}

// NewSongController creates a new SongController
func NewSongController(songService services.SongService) *SongController {
	return &SongController{songService: songService}
}

// ListSongs lists the library
// @Summary List songs
// @Description Songs with vote counts, most voted first
// @Tags songs
// @Produce json
// @Security BearerAuth
// @Param status query string false "proposed, active or retired"
// @Success 200 {object} dto.APIResponse{data=[]models.Song} "Songs"
// @Failure 400 {object} dto.APIResponse "Invalid status"
// @Router /songs [get]
func (c *SongController) ListSongs(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var status *models.SongStatus
	if raw := optionalQuery(ctx, "status"); raw != nil {
		s := models.SongStatus(*raw)
		if !s.Valid() {
			badQuery(ctx, "status", "status is not a known song status")
			return
		}
		status = &s
	}

	songs, err := c.songService.ListSongs(ctx.Request.Context(), actor, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(songs))
}

// CreateSong proposes a song
// @Summary Create song
// @Description Members propose songs. Only admins may create songs in another status.
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSongRequest true "Song"
// @Success 201 {object} dto.APIResponse{data=models.Song} "Created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Router /songs [post]
func (c *SongController) CreateSong(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateSongRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	song, err := c.songService.CreateSong(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(song))
}

// GetSong returns one song
// @Summary Get song
// @Tags songs
// @Produce json
// @Security BearerAuth
// @Param songId path string true "Song ID"
// @Success 200 {object} dto.APIResponse{data=models.Song} "Song"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /songs/{songId} [get]
func (c *SongController) GetSong(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	song, err := c.songService.GetSong(ctx.Request.Context(), actor, ctx.Param("songId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(song))
}

// UpdateSong edits a song
// @Summary Update song
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param songId path string true "Song ID"
// @Param request body dto.UpdateSongRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Song} "Updated"
// @Failure 403 {object} dto.APIResponse "Not the creator"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /songs/{songId} [patch]
func (c *SongController) UpdateSong(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.UpdateSongRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	song, err := c.songService.UpdateSong(ctx.Request.Context(), actor, ctx.Param("songId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(song))
}

// SetStatus moves a song between library states
// @Summary Set song status
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param songId path string true "Song ID"
// @Param request body dto.SetSongStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse "Status changed"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /songs/{songId}/status [put]
func (c *SongController) SetStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SetSongStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.songService.SetSongStatus(ctx.Request.Context(), actor, ctx.Param("songId"), req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Song status updated"))
}

// SetCapabilities replaces the capabilities a song needs
// @Summary Set song capabilities
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param songId path string true "Song ID"
// @Param request body dto.SetCapabilitiesRequest true "Capability IDs"
// @Success 200 {object} dto.APIResponse "Replaced"
// @Failure 403 {object} dto.APIResponse "Not the creator"
// @Router /songs/{songId}/capabilities [put]
func (c *SongController) SetCapabilities(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SetCapabilitiesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.songService.SetSongCapabilities(ctx.Request.Context(), actor, ctx.Param("songId"), req.CapabilityIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Song capabilities updated"))
}

// ToggleVote adds or removes the caller's vote
// @Summary Toggle song vote
// @Tags songs
// @Produce json
// @Security BearerAuth
// @Param songId path string true "Song ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse} "added or removed"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /songs/{songId}/vote [post]
func (c *SongController) ToggleVote(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	result, err := c.songService.ToggleSongVote(ctx.Request.Context(), actor, ctx.Param("songId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToggleResponse{Result: string(result)}))
}

// Suggest asks the completion API for song ideas
// @Summary Suggest songs
// @Tags songs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SuggestSongsRequest true "Prompt"
// @Success 200 {object} dto.APIResponse{data=[]dto.SongSuggestion} "Suggestions"
// @Failure 429 {object} dto.APIResponse "Provider quota exceeded"
// @Failure 502 {object} dto.APIResponse "Provider reply could not be parsed"
// @Router /songs/suggestions [post]
func (c *SongController) Suggest(ctx *gin.Context) {
	var req dto.SuggestSongsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	suggestions, err := c.songService.SuggestSongs(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(suggestions))
}
