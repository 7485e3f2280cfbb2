package auth_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenveggies/backend/shared/auth"
)

type stubVerifier struct {
	principal auth.Principal
	err       error
}

func (v stubVerifier) Verify(ctx context.Context, token string) (auth.Principal, error) {
	return v.principal, v.err
}

func newApp(verifier auth.Verifier, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()

	handlers := append([]fiber.Handler{auth.Authenticate(verifier)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, _ := auth.FromContext(c)
		return c.JSON(principal)
	})

	app.Get("/protected", handlers...)
	return app
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	app := newApp(stubVerifier{})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	app := newApp(stubVerifier{err: errors.New("expired")})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	app := newApp(stubVerifier{principal: auth.Principal{UserID: "US0012", Role: auth.RoleUser}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminForbidsRegularUser(t *testing.T) {
	app := newApp(stubVerifier{principal: auth.Principal{UserID: "US0012", Role: auth.RoleUser}}, auth.RequireAdmin())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	app := newApp(stubVerifier{principal: auth.Principal{UserID: "AD0001", Role: auth.RoleAdmin}}, auth.RequireAdmin())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
