package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// AgreementController handles agreement operations
type AgreementController struct {
	agreementService services.AgreementService
	signatureService services.SignatureService
	authService      services.AuthService
}

// NewAgreementController creates a new AgreementController
func NewAgreementController(agreementService services.AgreementService, signatureService services.SignatureService, authService services.AuthService) *AgreementController {
	return &AgreementController{
		agreementService: agreementService,
		signatureService: signatureService,
		authService:      authService,
	}
}

// CreateAgreement creates an agreement
// @Summary Create an agreement
// @Description Creates an agreement for a resource. The body must use only the allowed HTML tags; the validity window defaults to now through 121 days out.
// @Tags agreements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAgreementRequest true "Agreement"
// @Success 201 {object} dto.APIResponse{data=models.Agreement} "Agreement created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or disallowed HTML"
// @Failure 404 {object} dto.ErrorResponse "Resource not found"
// @Failure 409 {object} dto.ErrorResponse "Agreement already exists"
// @Router /agreements [post]
func (c *AgreementController) CreateAgreement(ctx *gin.Context) {
	var req dto.CreateAgreementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid agreement data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	agreement, err := c.agreementService.CreateAgreement(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      agreement,
		Timestamp: time.Now(),
	})
}

// GetAgreements lists agreements
// @Summary List agreements
// @Description Lists agreements. Hidden and out-of-window agreements appear only for callers with the view permission.
// @Tags agreements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Agreement} "Agreements retrieved"
// @Router /agreements [get]
func (c *AgreementController) GetAgreements(ctx *gin.Context) {
	agreements, err := c.agreementService.GetAgreements(ctx, canViewHidden(ctx, c.authService))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      agreements,
		Timestamp: time.Now(),
	})
}

// GetAgreement retrieves one agreement
// @Summary Get agreement details
// @Description Retrieves an agreement with the caller's signature, if any
// @Tags agreements
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Success 200 {object} dto.APIResponse{data=dto.AgreementDetail} "Agreement retrieved"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug} [get]
func (c *AgreementController) GetAgreement(ctx *gin.Context) {
	detail, err := c.agreementService.GetAgreementDetail(ctx, ctx.Param("slug"),
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

// UpdateAgreement updates an agreement
// @Summary Update an agreement
// @Description Updates an agreement. The slug and creation time cannot change.
// @Tags agreements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Param request body dto.UpdateAgreementRequest true "Agreement"
// @Success 200 {object} dto.APIResponse{data=models.Agreement} "Agreement updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or disallowed HTML"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug} [put]
func (c *AgreementController) UpdateAgreement(ctx *gin.Context) {
	var req dto.UpdateAgreementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid agreement data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	agreement, err := c.agreementService.UpdateAgreement(ctx, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      agreement,
		Timestamp: time.Now(),
	})
}

// DeleteAgreement removes an agreement
// @Summary Delete an agreement
// @Description Deletes an agreement and its signatures
// @Tags agreements
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Agreement deleted"
// @Failure 404 {object} dto.ErrorResponse "Agreement not found"
// @Router /agreements/{slug} [delete]
func (c *AgreementController) DeleteAgreement(ctx *gin.Context) {
	if err := c.agreementService.DeleteAgreement(ctx, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Agreement deleted"},
		Timestamp: time.Now(),
	})
}

// SignAgreement records the caller's signature
// @Summary Sign an agreement
// @Description Records the caller's acceptance, snapshotting their identity and claiming a license code of the resource when one is available
// @Tags agreements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Agreement slug"
// @Param request body dto.SignAgreementRequest true "Signature"
// @Success 201 {object} dto.APIResponse{data=models.Signature} "Agreement signed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Agreement or department not found"
// @Failure 409 {object} dto.ErrorResponse "Already signed or not open for signing"
// @Router /agreements/{slug}/sign [post]
func (c *AgreementController) SignAgreement(ctx *gin.Context) {
	var req dto.SignAgreementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid signature data").
			WithDetails("sign must be true and departmentId must be given")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	signature, err := c.signatureService.SignAgreement(ctx, ctx.Param("slug"),
		ctx.GetInt64(middleware.ContextUserID), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      signature,
		Timestamp: time.Now(),
	})
}
