package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"rentvideo/internal/config"
	"rentvideo/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// newAuthTestApp wires a single protected route behind the auth
// middleware
func newAuthTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		userID, _ := GetUserID(c)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func testJWTConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 15,
		},
	}
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	cfg := testJWTConfig()
	app := newAuthTestApp(cfg)

	token, err := jwt.GenerateAccessToken(1, "alice", []string{"USER"}, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	app := newAuthTestApp(cfg)

	token, err := jwt.GenerateAccessToken(1, "alice", []string{"USER"}, cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// The expired branch reports its own message, distinct from the
	// generic invalid-token one.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Access token expired")
}

func TestAuthMiddlewareRejectsMalformedToken(t *testing.T) {
	cfg := testJWTConfig()
	app := newAuthTestApp(cfg)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Invalid access token")
}

func TestAuthMiddlewareRequiresToken(t *testing.T) {
	app := newAuthTestApp(testJWTConfig())

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
