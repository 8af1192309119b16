package services

import (
	"context"
	"testing"

	"rentvideo/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, config.JWTConfig{
		Secret:           "test-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenMins:  15,
		RefreshTokenDays: 7,
	})
}

func TestRegisterAssignsDefaultUserRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	user, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.True(t, user.HasRole("USER"))
	require.False(t, user.HasRole("ADMIN"))
	require.NotEqual(t, "secret-pass", user.Password)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret-pass"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "secret-pass"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginAndRefreshRotation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	user, tokens, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Rotation: old refresh token is revoked after use
	_, rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, _, err = svc.Refresh(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "secret-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := newAuthService(db)

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	_, first, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	_, _, err = svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = svc.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
