package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
)

// HandleAPIError maps service errors to the standard error response. Every
// controller funnels its service errors through here so status codes and
// error codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	field := ""
	message := ""
	if errors.As(err, &custom) {
		field = custom.Field
		message = custom.Message
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		detail := dto.NewErrorDetail(code, message)
		if field != "" {
			detail = detail.WithField(field)
		}
		c.JSON(status, dto.NewErrorResponse(detail))
	}

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound,
		apperrors.ErrResourceNotFound, apperrors.ErrFacultyNotFound,
		apperrors.ErrDepartmentNotFound, apperrors.ErrAgreementNotFound,
		apperrors.ErrSignatureNotFound, apperrors.ErrLicenseCodeNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrGroupNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeNotFound, err.Error())

	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrResourceAlreadyExists, apperrors.ErrFacultyAlreadyExists,
		apperrors.ErrDepartmentAlreadyExists, apperrors.ErrAgreementAlreadyExists,
		apperrors.ErrUsernameExists, apperrors.ErrGroupAlreadyExists,
		apperrors.ErrDuplicateCode):
		respond(http.StatusConflict, dto.ErrorCodeAlreadyExists, err.Error())

	case apperrors.Is(err, apperrors.ErrResourceHasAgreements,
		apperrors.ErrDepartmentHasSignatures, apperrors.ErrLicenseCodeAssigned):
		respond(http.StatusConflict, dto.ErrorCodeInUse, err.Error())

	case errors.Is(err, apperrors.ErrAlreadySigned):
		respond(http.StatusConflict, dto.ErrorCodeAlreadySigned, "Agreement already signed")

	case errors.Is(err, apperrors.ErrAgreementNotSignable):
		respond(http.StatusConflict, dto.ErrorCodeNotSignable, "Agreement is not open for signing")

	case apperrors.Is(err, apperrors.ErrPermissionDenied,
		apperrors.ErrStaffRequired, apperrors.ErrSignatureRequired):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, err.Error())

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrInvalidHTML):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidHTML, err.Error())

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest, apperrors.ErrSlugReserved,
		apperrors.ErrSlugImmutable, apperrors.ErrUnknownPermission):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}
