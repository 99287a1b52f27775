package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// exportHeader is the column order of signature exports.
var exportHeader = []string{"Username", "First name", "Last name", "Email", "Department", "Faculty", "Signed at", "License code"}

// SignatureController handles signature listing, reporting and export
type SignatureController struct {
	signatureService services.SignatureService
}

// NewSignatureController creates a new SignatureController
func NewSignatureController(signatureService services.SignatureService) *SignatureController {
	return &SignatureController{
		signatureService: signatureService,
	}
}

// GetSignatures lists an agreement's signatures
// @Summary List signatures
// @Description Retrieves one page of an agreement's signatures, newest first, filtered by a free-text query over signatory and department fields
// @Tags signatures
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Param q query string false "Search query"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(15)
// @Success 200 {object} dto.APIResponse{data=[]dto.SignatureRow} "Signatures retrieved"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug}/signatures [get]
func (c *SignatureController) GetSignatures(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	rows, total, err := c.signatureService.GetSignatures(ctx, ctx.Param("slug"), ctx.Query("q"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       rows,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// ExportSignatures exports an agreement's signatures
// @Summary Export signatures
// @Description Downloads every signature of an agreement as CSV or XLSX
// @Tags signatures
// @Produce octet-stream
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Param format query string false "Export format: csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} dto.ErrorResponse "Unknown format"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug}/signatures/export [get]
func (c *SignatureController) ExportSignatures(ctx *gin.Context) {
	slug := ctx.Param("slug")
	format := ctx.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown export format").
			WithField("format")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	rows, err := c.signatureService.GetAllSignatureRows(ctx, slug)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("%s-signatures.%s", slug, format)
	if format == "csv" {
		c.writeCSV(ctx, filename, rows)
		return
	}
	c.writeXLSX(ctx, filename, rows)
}

func exportRecord(row dto.SignatureRow) []string {
	return []string{
		row.Username,
		row.FirstName,
		row.LastName,
		row.Email,
		row.DepartmentName,
		row.FacultyName,
		row.SignedAt.Format(time.RFC3339),
		row.LicenseCode,
	}
}

func (c *SignatureController) writeCSV(ctx *gin.Context, filename string, rows []dto.SignatureRow) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "text/csv")

	w := csv.NewWriter(ctx.Writer)
	if err := w.Write(exportHeader); err != nil {
		logger.Error().Err(err).Msg("Failed to write CSV header")
		return
	}
	for _, row := range rows {
		if err := w.Write(exportRecord(row)); err != nil {
			logger.Error().Err(err).Msg("Failed to write CSV row")
			return
		}
	}
	w.Flush()
}

func (c *SignatureController) writeXLSX(ctx *gin.Context, filename string, rows []dto.SignatureRow) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Signatures"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	for i, row := range rows {
		record := exportRecord(row)
		cells := make([]interface{}, len(record))
		for j, v := range record {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(ctx.Writer); err != nil {
		logger.Error().Err(err).Msg("Failed to write XLSX export")
	}
}

// GetSignatureStats reports signature counts
// @Summary Signature statistics
// @Description Reports an agreement's signature counts per department and per faculty
// @Tags signatures
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Success 200 {object} dto.APIResponse{data=dto.SignatureStats} "Statistics retrieved"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug}/signatures/stats [get]
func (c *SignatureController) GetSignatureStats(ctx *gin.Context) {
	stats, err := c.signatureService.GetSignatureStats(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}
