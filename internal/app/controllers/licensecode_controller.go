package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// LicenseCodeController handles license code operations
type LicenseCodeController struct {
	licenseCodeService services.LicenseCodeService
}

// NewLicenseCodeController creates a new LicenseCodeController
func NewLicenseCodeController(licenseCodeService services.LicenseCodeService) *LicenseCodeController {
	return &LicenseCodeController{
		licenseCodeService: licenseCodeService,
	}
}

// GetCodes lists a resource's license codes
// @Summary List license codes
// @Description Lists a resource's codes, unassigned first, with the claiming signature attached where one exists and the unassigned pool count
// @Tags license-codes
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseCodeList} "Codes retrieved"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug}/codes [get]
func (c *LicenseCodeController) GetCodes(ctx *gin.Context) {
	codes, err := c.licenseCodeService.GetCodes(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      codes,
		Timestamp: time.Now(),
	})
}

// AddCodes bulk-adds license codes
// @Summary Add license codes
// @Description Adds newline-delimited codes to a resource. The batch must contain no duplicates, within itself or against stored codes.
// @Tags license-codes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param request body dto.AddLicenseCodesRequest true "Codes, one per line"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Codes added"
// @Failure 400 {object} dto.ErrorResponse "Empty or duplicate submission"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /resources/{slug}/codes [post]
func (c *LicenseCodeController) AddCodes(ctx *gin.Context) {
	var req dto.AddLicenseCodesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid codes data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	added, err := c.licenseCodeService.AddCodes(ctx, ctx.Param("slug"), req.Codes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: strconv.Itoa(added) + " codes added"},
		Timestamp: time.Now(),
	})
}

// DeleteCode removes an unassigned license code
// @Summary Delete a license code
// @Description Deletes a code that has not been claimed by a signature
// @Tags license-codes
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param id path int true "Code ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Code deleted"
// @Failure 404 {object} dto.ErrorResponse "Resource or code not found"
// @Failure 409 {object} dto.ErrorResponse "Code is assigned"
// @Router /resources/{slug}/codes/{id} [delete]
func (c *LicenseCodeController) DeleteCode(ctx *gin.Context) {
	codeID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid code ID").
			WithField("id")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.licenseCodeService.DeleteCode(ctx, ctx.Param("slug"), codeID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Code deleted"},
		Timestamp: time.Now(),
	})
}
