package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/auth"
)

type fakeTokens struct {
	owner   map[string]string
	revoked map[string]bool
}

func (f *fakeTokens) CreateToken(_ context.Context, token, userID string, _ time.Time) error {
	f.owner[token] = userID
	return nil
}

func (f *fakeTokens) GetTokenByValue(_ context.Context, token string) (string, time.Time, error) {
	userID, ok := f.owner[token]
	if !ok {
		return "", time.Time{}, apperrors.ErrTokenNotFound
	}
	if f.revoked[token] {
		return "", time.Time{}, apperrors.ErrTokenRevoked
	}
	return userID, time.Now().Add(time.Hour), nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokens) RevokeAllUserTokens(_ context.Context, userID string) error {
	for token, owner := range f.owner {
		if owner == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func newAuthFixture() (*authServiceImpl, *fakeUsers, *fakeTokens) {
	users := newFakeUsers()
	tokens := &fakeTokens{owner: map[string]string{}, revoked: map[string]bool{}}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "test-secret", AccessTokenExp: time.Hour, RefreshTokenExp: 24 * time.Hour, TokenIssuer: "bandhub-test",
	})
	svc := NewAuthService(users, tokens, jwtService, testLogger).(*authServiceImpl)
	return svc, users, tokens
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Uma@Example.com ", Password: "longenough", Name: "Uma"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Status != models.UserStatusPending || resp.Role != models.RoleUser || resp.Email != "uma@example.com" {
		t.Errorf("response = %+v", resp)
	}
	if users.byID[resp.ID].Password == "longenough" {
		t.Error("password stored in clear text")
	}

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Email: "uma@example.com", Password: "longenough", Name: "Uma"}); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("duplicate email: err = %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, users, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "x@example.com", Password: "short", Name: "X"})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want bad request", err)
	}
	if len(users.byID) != 0 {
		t.Error("no user should be created")
	}
}

func TestLoginStampsSignInAndRotatesRefresh(t *testing.T) {
	svc, users, tokens := newAuthFixture()
	ctx := context.Background()
	signedIn := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return signedIn }

	reg, _ := svc.Register(ctx, &dto.RegisterRequest{Email: "uma@example.com", Password: "longenough", Name: "Uma"})

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "uma@example.com", Password: "wrong-pass"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "longenough"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "uma@example.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := users.byID[reg.ID].LastSignInAt; got == nil || !got.Equal(signedIn) {
		t.Errorf("last sign-in = %v", got)
	}

	rotated, err := svc.RefreshToken(ctx, login.Token.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if rotated.RefreshToken == login.Token.RefreshToken || !tokens.revoked[login.Token.RefreshToken] {
		t.Error("old refresh token should be revoked and replaced")
	}
	if _, err := svc.RefreshToken(ctx, login.Token.RefreshToken); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("reused token: err = %v", err)
	}
}

func TestLoginRejectsRejectedAccounts(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	reg, _ := svc.Register(ctx, &dto.RegisterRequest{Email: "vic@example.com", Password: "longenough", Name: "Vic"})
	users.byID[reg.ID].Status = models.UserStatusRejected

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "vic@example.com", Password: "longenough"}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("err = %v, want forbidden", err)
	}
}
