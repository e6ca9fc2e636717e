package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BackupController exports and imports the database as a workbook
type BackupController struct {
	backupService services.BackupService
	logger        zerolog.Logger
}

// NewBackupController creates a new BackupController
func NewBackupController(backupService services.BackupService, logger zerolog.Logger) *BackupController {
	return &BackupController{
		backupService: backupService,
		logger:        logger,
	}
}

// Backup streams every table as one workbook
// @Summary Download backup
// @Description One sheet per table, named backup-YYYY-MM-DD.xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Workbook"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 500 {object} dto.APIResponse "A table could not be read"
// @Router /admin/backup [get]
func (c *BackupController) Backup(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	archive, err := c.backupService.Backup(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Type", xlsxContentType)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	ctx.Status(http.StatusOK)
	if err := archive.Render(ctx.Writer); err != nil {
		// headers are already sent
		c.logger.Error().Err(err).Msg("Failed to stream backup workbook")
	}
}

// Restore upserts every table from an uploaded workbook
// @Summary Restore from backup
// @Description Tables are restored in dependency order. Each table succeeds or fails on its own; rows pointing at missing parents are dropped and counted.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Backup workbook"
// @Success 200 {object} dto.APIResponse{data=map[string]models.TableRestoreResult} "Status per table"
// @Failure 400 {object} dto.APIResponse "Missing or unreadable workbook"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Router /admin/restore [post]
func (c *BackupController) Restore(ctx *gin.Context) {
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

	results, err := c.backupService.Restore(ctx.Request.Context(), actor, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}
