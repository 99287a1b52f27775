package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// DepartmentController handles department operations
type DepartmentController struct {
	departmentService services.DepartmentService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService services.DepartmentService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
	}
}

// CreateDepartment creates a department
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	department, err := c.departmentService.CreateDepartment(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// GetDepartments lists departments
// @Summary List departments
// @Description Lists departments, optionally restricted to one faculty
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param faculty query string false "Faculty slug"
// @Success 200 {object} dto.APIResponse{data=[]models.Department} "Departments retrieved"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /departments [get]
func (c *DepartmentController) GetDepartments(ctx *gin.Context) {
	departments, err := c.departmentService.GetDepartments(ctx, ctx.Query("faculty"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      departments,
		Timestamp: time.Now(),
	})
}

// GetDepartment retrieves one department
// @Summary Get department details
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department retrieved"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{slug} [get]
func (c *DepartmentController) GetDepartment(ctx *gin.Context) {
	department, err := c.departmentService.GetDepartmentBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// UpdateDepartment updates a department
// @Summary Update a department
// @Description Renames a department or moves it to another faculty. The slug cannot change.
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Param request body dto.UpdateDepartmentRequest true "Department"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department updated"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{slug} [put]
func (c *DepartmentController) UpdateDepartment(ctx *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid department data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	department, err := c.departmentService.UpdateDepartment(ctx, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      department,
		Timestamp: time.Now(),
	})
}

// DeleteDepartment removes a department
// @Summary Delete a department
// @Description Deletes a department without signatures
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Department slug"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Department deleted"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Department has signatures"
// @Router /departments/{slug} [delete]
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	if err := c.departmentService.DeleteDepartment(ctx, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Department deleted"},
		Timestamp: time.Now(),
	})
}
