package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// AccessController serves protected files and their download statistics
type AccessController struct {
	accessService services.AccessService
}

// NewAccessController creates a new AccessController
func NewAccessController(accessService services.AccessService) *AccessController {
	return &AccessController{
		accessService: accessService,
	}
}

// sessionKey identifies the downloading session for dedup. Downloads are
// keyed per user, so refreshes within the window don't inflate stats.
func sessionKey(ctx *gin.Context) string {
	return strconv.FormatInt(ctx.GetInt64(middleware.ContextUserID), 10)
}

// AccessFile downloads a protected file
// @Summary Download a protected file
// @Description Serves a file of the resource. The caller must have signed a currently valid agreement of the resource.
// @Tags resources
// @Produce octet-stream
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param filepath path string true "File path"
// @Success 200 {file} file "File content"
// @Failure 403 {object} dto.ErrorResponse "No signature on a valid agreement"
// @Failure 404 {object} dto.ErrorResponse "Resource or file not found"
// @Router /resources/{slug}/access/{filepath} [get]
func (c *AccessController) AccessFile(ctx *gin.Context) {
	relPath := strings.TrimPrefix(ctx.Param("filepath"), "/")

	path, err := c.accessService.AccessFile(ctx, ctx.Param("slug"), relPath,
		ctx.GetInt64(middleware.ContextUserID), sessionKey(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.File(path)
}

// GetFileStats reports download counts
// @Summary File download statistics
// @Description Reports a resource's download counts per file path, most downloaded first
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Success 200 {object} dto.APIResponse{data=[]models.PathDownloadCount} "Statistics retrieved"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug}/file-stats [get]
func (c *AccessController) GetFileStats(ctx *gin.Context) {
	counts, err := c.accessService.GetFileStats(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      counts,
		Timestamp: time.Now(),
	})
}

// UploadFile stores a protected file
// @Summary Upload a protected file
// @Description Stores a file under the resource's protected directory
// @Tags resources
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param file formData file true "File"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "File stored"
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug}/files [post]
func (c *AccessController) UploadFile(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing file").
			WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	relPath, err := c.accessService.UploadFile(ctx, ctx.Param("slug"), fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Stored " + relPath},
		Timestamp: time.Now(),
	})
}

// DeleteFile removes a protected file
// @Summary Delete a protected file
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Resource slug"
// @Param filepath path string true "File path"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "File deleted"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Router /resources/{slug}/files/{filepath} [delete]
func (c *AccessController) DeleteFile(ctx *gin.Context) {
	relPath := strings.TrimPrefix(ctx.Param("filepath"), "/")

	if err := c.accessService.DeleteFile(ctx, ctx.Param("slug"), relPath); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "File deleted"},
		Timestamp: time.Now(),
	})
}
