package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// ResourceController handles resource operations
type ResourceController struct {
	resourceService services.ResourceService
	authService     services.AuthService
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService, authService services.AuthService) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		authService:     authService,
	}
}

// canViewHidden reports whether the caller may see hidden and out-of-window
// agreements.
func canViewHidden(ctx *gin.Context, authService services.AuthService) bool {
	if ctx.GetBool(middleware.ContextIsSuperuser) {
		return true
	}
	allowed, err := authService.HasPermission(ctx, ctx.GetInt64(middleware.ContextUserID), models.PermViewAgreement)
	if err != nil {
		return false
	}
	return allowed
}

// CreateResource creates a resource
// @Summary Create a resource
// @Description Creates a protected resource. The slug is derived from the name when omitted.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResourceRequest true "Resource"
// @Success 201 {object} dto.APIResponse{data=models.Resource} "Resource created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Resource already exists"
// @Router /resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	var req dto.CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid resource data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resource, err := c.resourceService.CreateResource(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resource,
		Timestamp: time.Now(),
	})
}

// GetResources lists resources
// @Summary List resources
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Resource} "Resources retrieved"
// @Router /resources [get]
func (c *ResourceController) GetResources(ctx *gin.Context) {
	resources, err := c.resourceService.GetResources(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resources,
		Timestamp: time.Now(),
	})
}

// GetResource retrieves one resource with its agreements
// @Summary Get resource details
// @Description Retrieves a resource with its agreements as visible to the caller, each carrying the caller's signature when present
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Success 200 {object} dto.APIResponse{data=dto.ResourceDetail} "Resource retrieved"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug} [get]
func (c *ResourceController) GetResource(ctx *gin.Context) {
	detail, err := c.resourceService.GetResourceDetail(ctx, ctx.Param("slug"),
		ctx.GetInt64(middleware.ContextUserID), canViewHidden(ctx, c.authService))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      detail,
		Timestamp: time.Now(),
	})
}

// UpdateResource updates a resource
// @Summary Update a resource
// @Description Updates a resource's fields. The slug cannot change.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param request body dto.UpdateResourceRequest true "Resource"
// @Success 200 {object} dto.APIResponse{data=models.Resource} "Resource updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug} [put]
func (c *ResourceController) UpdateResource(ctx *gin.Context) {
	var req dto.UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid resource data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resource, err := c.resourceService.UpdateResource(ctx, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resource,
		Timestamp: time.Now(),
	})
}

// DeleteResource removes a resource
// @Summary Delete a resource
// @Description Deletes a resource without agreements
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Resource deleted"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 409 {object} dto.ErrorResponse "Resource has agreements"
// @Router /resources/{slug} [delete]
func (c *ResourceController) DeleteResource(ctx *gin.Context) {
	if err := c.resourceService.DeleteResource(ctx, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Resource deleted"},
		Timestamp: time.Now(),
	})
}
