package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
	"github.com/mellynhq/mellyn/internal/pkg/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID      = "userID"
	ContextUsername    = "username"
	ContextIsStaff     = "isStaff"
	ContextIsSuperuser = "isSuperuser"
)

// AuthMiddleware guards routes with JWT validation and permission checks
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	authService services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		authService: authService,
	}
}

// JWTAuth validates the bearer token and stores the caller's identity on the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextIsStaff, claims.IsStaff)
		c.Set(ContextIsSuperuser, claims.IsSuperuser)

		c.Next()
	}
}

// StaffRequired allows only staff accounts through. Must run after JWTAuth.
func (m *AuthMiddleware) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsStaff) && !c.GetBool(ContextIsSuperuser) {
			HandleAPIError(c, apperrors.ErrStaffRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PermissionRequired allows only callers holding the permission codename
// through. Superusers always pass. Must run after JWTAuth.
func (m *AuthMiddleware) PermissionRequired(codename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ContextIsSuperuser) {
			c.Next()
			return
		}

		userID := c.GetInt64(ContextUserID)
		allowed, err := m.authService.HasPermission(c, userID, codename)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if !allowed {
			HandleAPIError(c, apperrors.ErrPermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
