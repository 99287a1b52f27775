package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mellynhq/mellyn/internal/app/models"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "mellyn.test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{
		ID:          42,
		Username:    "frodo",
		IsStaff:     true,
		IsSuperuser: false,
	}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}
	if refreshExpiresIn != int((720 * time.Hour).Seconds()) {
		t.Errorf("refreshExpiresIn = %d, want %d", refreshExpiresIn, int((720*time.Hour).Seconds()))
	}

	// The refresh token is an opaque UUID, not a JWT.
	if _, err := uuid.Parse(refresh); err != nil {
		t.Errorf("refresh token %q is not a UUID: %v", refresh, err)
	}

	claims, err := svc.ValidateAndExtractClaims(access)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims() error: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "frodo" {
		t.Errorf("claims = %d/%q, want 42/frodo", claims.UserID, claims.Username)
	}
	if !claims.IsStaff || claims.IsSuperuser {
		t.Errorf("claims flags = staff %v superuser %v", claims.IsStaff, claims.IsSuperuser)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	access, _, _, _, err := testService(time.Hour).GenerateTokenPair(&models.User{ID: 1, Username: "sam"})
	if err != nil {
		t.Fatalf("GenerateTokenPair() error: %v", err)
	}

	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: time.Hour,
	})
	if _, err := other.ValidateAndExtractClaims(access); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)
	access, _, _, _, err := svc.GenerateTokenPair(&models.User{ID: 1, Username: "sam"})
	if err != nil {
		t.Fatalf("GenerateTokenPair() error: %v", err)
	}

	_, err = svc.ValidateAndExtractClaims(access)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateAndExtractClaims() = %v, want ErrExpiredToken", err)
	}
}

func TestValidateEmptyToken(t *testing.T) {
	if _, err := testService(time.Hour).ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAndExtractClaims(\"\") = %v, want ErrInvalidToken", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ExtractBearerToken(\"\") = %v, want ErrInvalidFormat", err)
	}

	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("ExtractBearerToken(Bearer ...) = %q, %v", token, err)
	}

	// Raw tokens without the prefix are passed through.
	token, err = ExtractBearerToken("abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("ExtractBearerToken(raw) = %q, %v", token, err)
	}
}
