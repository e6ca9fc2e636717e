package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/middleware"
)

// CapabilityController handles the capability catalog
type CapabilityController struct {
	capabilityService services.CapabilityService
}

// NewCapabilityController creates a new CapabilityController
func NewCapabilityController(capabilityService services.CapabilityService) *CapabilityController {
	return &CapabilityController{capabilityService: capabilityService}
}

// ListCapabilities returns the catalog
// @Summary List capabilities
// @Tags capabilities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Capability} "Capabilities ordered by name"
// @Router /capabilities [get]
func (c *CapabilityController) ListCapabilities(ctx *gin.Context) {
	caps, err := c.capabilityService.ListCapabilities(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if caps == nil {
		caps = []models.Capability{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(caps))
}

// CreateCapability adds a capability
// @Summary Create capability
// @Tags capabilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCapabilityRequest true "Capability"
// @Success 201 {object} dto.APIResponse{data=models.Capability} "Created"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 409 {object} dto.APIResponse "Name already used"
// @Router /capabilities [post]
func (c *CapabilityController) CreateCapability(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateCapabilityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	capability, err := c.capabilityService.CreateCapability(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(capability))
}

// DeleteCapability removes a capability
// @Summary Delete capability
// @Tags capabilities
// @Produce json
// @Security BearerAuth
// @Param capabilityId path string true "Capability ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 404 {object} dto.APIResponse "Not found"
// @Router /capabilities/{capabilityId} [delete]
func (c *CapabilityController) DeleteCapability(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.capabilityService.DeleteCapability(ctx.Request.Context(), actor, ctx.Param("capabilityId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(nil, "Capability deleted"))
}

// SyncCapabilities rebuilds the catalog from the icon directory
// @Summary Sync capabilities from icons
// @Description One capability per image in the icon directory. Adds new names, updates changed icons and leaves everything else alone.
// @Tags capabilities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CapabilitySyncResult} "Sync summary"
// @Failure 403 {object} dto.APIResponse "Admin only"
// @Failure 500 {object} dto.APIResponse "Icon directory unreadable"
// @Router /capabilities/sync [post]
func (c *CapabilityController) SyncCapabilities(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	result, err := c.capabilityService.SyncFromIconDirectory(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
