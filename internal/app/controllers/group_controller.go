package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// GroupController handles permission group administration
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{
		groupService: groupService,
	}
}

// CreateGroup creates a permission group
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group"
// @Success 201 {object} dto.APIResponse{data=models.PermissionGroup} "Group created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Group already exists"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid group data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	group, err := c.groupService.CreateGroup(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// GetGroups lists permission groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PermissionGroup} "Groups retrieved"
// @Router /groups [get]
func (c *GroupController) GetGroups(ctx *gin.Context) {
	groups, err := c.groupService.GetGroups(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      groups,
		Timestamp: time.Now(),
	})
}

// GetGroup retrieves one permission group
// @Summary Get group details
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Group slug"
// @Success 200 {object} dto.APIResponse{data=models.PermissionGroup} "Group retrieved"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{slug} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	group, err := c.groupService.GetGroupBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// UpdateGroup updates a permission group
// @Summary Update a group
// @Description Renames a group or changes its description. The slug cannot change.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Group slug"
// @Param request body dto.UpdateGroupRequest true "Group"
// @Success 200 {object} dto.APIResponse{data=models.PermissionGroup} "Group updated"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{slug} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	var req dto.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid group data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	group, err := c.groupService.UpdateGroup(ctx, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// UpdateGroupPermissions replaces a group's grants
// @Summary Update group permissions
// @Description Replaces the group's granted permission codenames
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Group slug"
// @Param request body dto.UpdateGroupPermissionsRequest true "Permissions"
// @Success 200 {object} dto.APIResponse{data=models.PermissionGroup} "Permissions updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown permission codename"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{slug}/permissions [put]
func (c *GroupController) UpdateGroupPermissions(ctx *gin.Context) {
	var req dto.UpdateGroupPermissionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid permissions data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	group, err := c.groupService.UpdateGroupPermissions(ctx, ctx.Param("slug"), req.Permissions)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      group,
		Timestamp: time.Now(),
	})
}

// DeleteGroup removes a permission group
// @Summary Delete a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Group slug"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Group deleted"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{slug} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := c.groupService.DeleteGroup(ctx, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Group deleted"},
		Timestamp: time.Now(),
	})
}
