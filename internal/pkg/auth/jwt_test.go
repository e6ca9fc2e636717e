package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "bandhub.test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	user := &models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleAdmin}

	pair, err := svc.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.RefreshToken == "" || pair.ExpiresIn != 3600 {
		t.Errorf("unexpected pair: %+v", pair)
	}

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(&models.User{ID: "u1", Email: "u1@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(pair.AccessToken); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestWrongSecretIsInvalid(t *testing.T) {
	pair, err := newTestService().GenerateTokenPair(&models.User{ID: "u1", Email: "e@x.io"})
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(pair.AccessToken); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def.ghi":   "abc.def.ghi",
		"abc.def.ghi":          "abc.def.ghi",
		"\"Bearer abc.def.g\"": "abc.def.g",
	}
	for in, want := range tests {
		got, err := ExtractBearerToken(in)
		if err != nil || got != want {
			t.Errorf("ExtractBearerToken(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ExtractBearerToken("  "); !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Errorf("blank header err = %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "correct horse") || CheckPassword(hash, "wrong") {
		t.Error("password check mismatch")
	}
}
