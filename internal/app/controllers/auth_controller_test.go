package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	loginTokens *dto.TokenResponse
	loginErr    error

	loggedOut []string
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginTokens, nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	return f.loginTokens, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserProfile, error) {
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAuthService) HasPermission(ctx context.Context, userID int64, codename string) (bool, error) {
	return false, nil
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginSuccess(t *testing.T) {
	svc := &fakeAuthService{
		loginTokens: &dto.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
		},
	}
	router := gin.New()
	router.POST("/auth/login", NewAuthController(svc).Login)

	w := postJSON(router, "/auth/login", `{"username":"frodo","password":"pw"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Data.AccessToken != "access" || resp.Data.TokenType != "Bearer" {
		t.Errorf("tokens = %+v", resp.Data)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc := &fakeAuthService{loginErr: apperrors.ErrInvalidCredentials}
	router := gin.New()
	router.POST("/auth/login", NewAuthController(svc).Login)

	w := postJSON(router, "/auth/login", `{"username":"frodo","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	router := gin.New()
	router.POST("/auth/login", NewAuthController(&fakeAuthService{}).Login)

	w := postJSON(router, "/auth/login", `{"username":"frodo"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := &fakeAuthService{}
	router := gin.New()
	router.POST("/auth/logout", NewAuthController(svc).Logout)

	w := postJSON(router, "/auth/logout", `{"refreshToken":"the-token"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(svc.loggedOut) != 1 || svc.loggedOut[0] != "the-token" {
		t.Errorf("logged out tokens = %v", svc.loggedOut)
	}
}
