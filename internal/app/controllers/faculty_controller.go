package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// FacultyController handles faculty operations
type FacultyController struct {
	facultyService services.FacultyService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
	}
}

// CreateFaculty creates a faculty
// @Summary Create a faculty
// @Tags faculties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFacultyRequest true "Faculty"
// @Success 201 {object} dto.APIResponse{data=models.Faculty} "Faculty created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Faculty already exists"
// @Router /faculties [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid faculty data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	faculty, err := c.facultyService.CreateFaculty(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      faculty,
		Timestamp: time.Now(),
	})
}

// GetFaculties lists faculties
// @Summary List faculties
// @Tags faculties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty} "Faculties retrieved"
// @Router /faculties [get]
func (c *FacultyController) GetFaculties(ctx *gin.Context) {
	faculties, err := c.facultyService.GetFaculties(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      faculties,
		Timestamp: time.Now(),
	})
}

// GetFaculty retrieves one faculty
// @Summary Get faculty details
// @Tags faculties
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Faculty slug"
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty retrieved"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{slug} [get]
func (c *FacultyController) GetFaculty(ctx *gin.Context) {
	faculty, err := c.facultyService.GetFacultyBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      faculty,
		Timestamp: time.Now(),
	})
}

// UpdateFaculty renames a faculty
// @Summary Update a faculty
// @Description Renames a faculty. The slug cannot change.
// @Tags faculties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Faculty slug"
// @Param request body dto.UpdateFacultyRequest true "Faculty"
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty updated"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{slug} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	var req dto.UpdateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid faculty data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	faculty, err := c.facultyService.UpdateFaculty(ctx, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      faculty,
		Timestamp: time.Now(),
	})
}

// DeleteFaculty removes a faculty
// @Summary Delete a faculty
// @Description Deletes a faculty and its departments, provided none has signatures
// @Tags faculties
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Faculty slug"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Faculty deleted"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 409 {object} dto.ErrorResponse "A department has signatures"
// @Router /faculties/{slug} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	if err := c.facultyService.DeleteFaculty(ctx, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Faculty deleted"},
		Timestamp: time.Now(),
	})
}
