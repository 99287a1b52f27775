package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handleError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return w.Code, body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"resource not found", apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeNotFound},
		{"agreement not found", apperrors.ErrAgreementNotFound, http.StatusNotFound, dto.ErrorCodeNotFound},
		{"duplicate slug", apperrors.ErrAgreementAlreadyExists, http.StatusConflict, dto.ErrorCodeAlreadyExists},
		{"duplicate license code", apperrors.ErrDuplicateCode, http.StatusConflict, dto.ErrorCodeAlreadyExists},
		{"resource in use", apperrors.ErrResourceHasAgreements, http.StatusConflict, dto.ErrorCodeInUse},
		{"assigned code", apperrors.ErrLicenseCodeAssigned, http.StatusConflict, dto.ErrorCodeInUse},
		{"already signed", apperrors.ErrAlreadySigned, http.StatusConflict, dto.ErrorCodeAlreadySigned},
		{"not signable", apperrors.ErrAgreementNotSignable, http.StatusConflict, dto.ErrorCodeNotSignable},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"signature required", apperrors.ErrSignatureRequired, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"account disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked token", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"invalid html", apperrors.ErrInvalidHTML, http.StatusBadRequest, dto.ErrorCodeInvalidHTML},
		{"validation failure", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown permission", apperrors.ErrUnknownPermission, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, body := handleError(t, c.err)
			if status != c.wantStatus {
				t.Errorf("status = %d, want %d", status, c.wantStatus)
			}
			if body.Error == nil {
				t.Fatal("response has no error detail")
			}
			if body.Error.Code != c.wantCode {
				t.Errorf("code = %s, want %s", body.Error.Code, c.wantCode)
			}
			if body.Success {
				t.Error("success = true on an error response")
			}
		})
	}
}

func TestHandleAPIErrorKeepsCustomField(t *testing.T) {
	err := apperrors.NewValidationError("slug", "slug may only contain lowercase letters, numbers and hyphens")

	status, body := handleError(t, err)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
	}
	if body.Error == nil || body.Error.Field != "slug" {
		t.Errorf("field not preserved: %+v", body.Error)
	}
	if body.Error.Message != "slug may only contain lowercase letters, numbers and hyphens" {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestHandleAPIErrorUnknownErrorIs500(t *testing.T) {
	status, body := handleError(t, errors.New("pg connection reset"))
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
	if body.Error == nil || body.Error.Code != dto.ErrorCodeInternalServer {
		t.Errorf("code = %+v, want SRV_001", body.Error)
	}
	if body.Error.Message != "Internal server error" {
		t.Errorf("message %q leaks internal detail", body.Error.Message)
	}
}
