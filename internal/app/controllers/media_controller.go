package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// MediaController handles session photos and recordings
type MediaController struct {
	mediaService services.MediaService
}

// NewMediaController creates a new MediaController
func NewMediaController(mediaService services.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// ListMedia lists a session's photos or recordings
// @Summary List session media
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param kind query string true "photo or recording"
// @Success 200 {object} dto.APIResponse{data=[]models.Media} "Media"
// @Failure 400 {object} dto.APIResponse "Invalid kind"
// @Router /sessions/{sessionId}/media [get]
func (c *MediaController) ListMedia(ctx *gin.Context) {
	media, err := c.mediaService.ListMedia(ctx.Request.Context(), ctx.Param("sessionId"), models.MediaKind(ctx.Query("kind")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if media == nil {
		media = []models.Media{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(media))
}

// UploadMedia stores a file through the API
// @Summary Upload session media
// @Description Stores the file and records it. Fails with 409 if the storage path is taken.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param kind formData string true "photo or recording"
// @Param caption formData string false "Caption or title"
// @Param file formData file true "Media file"
// @Success 201 {object} dto.APIResponse{data=models.Media} "Stored"
// @Failure 400 {object} dto.APIResponse "Missing file or invalid kind"
// @Failure 409 {object} dto.APIResponse "Object already exists"
// @Router /sessions/{sessionId}/media [post]
func (c *MediaController) UploadMedia(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	upload := services.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}
	media, err := c.mediaService.UploadMedia(ctx.Request.Context(), actor, ctx.Param("sessionId"),
		models.MediaKind(ctx.PostForm("kind")), ctx.PostForm("caption"), upload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(media))
}

// SignUpload issues a direct upload URL
// @Summary Sign a media upload
// @Description Returns a presigned PUT URL and the storage path to register after the upload
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.SignUploadRequest true "File"
// @Success 200 {object} dto.APIResponse{data=dto.SignUploadResponse} "Signed URL"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /sessions/{sessionId}/media/sign [post]
func (c *MediaController) SignUpload(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.SignUploadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.mediaService.SignUpload(ctx.Request.Context(), actor, ctx.Param("sessionId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RegisterMedia records a directly uploaded object
// @Summary Register uploaded media
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body dto.RegisterMediaRequest true "Storage path and caption"
// @Success 201 {object} dto.APIResponse{data=models.Media} "Recorded"
// @Failure 400 {object} dto.APIResponse "Path outside the session"
// @Router /sessions/{sessionId}/media/register [post]
func (c *MediaController) RegisterMedia(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.RegisterMediaRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	media, err := c.mediaService.RegisterMedia(ctx.Request.Context(), actor, ctx.Param("sessionId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(media))
}

// DeleteMedia removes a photo or recording
// @Summary Delete media
// @Description Owner or admin. Removes the stored object, then the record.
// @Tags media
// @Produce json
// @Security BearerAuth
// @Param kind path string true "photo or recording"
// @Param mediaId path string true "Media ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /media/{kind}/{mediaId} [delete]
func (c *MediaController) DeleteMedia(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.mediaService.DeleteMedia(ctx.Request.Context(), actor, models.MediaKind(ctx.Param("kind")), ctx.Param("mediaId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Media deleted"))
}
