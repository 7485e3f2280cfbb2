package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	sharedHTTP "github.com/greenveggies/backend/shared/http"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	principalKey = "auth.principal"
)

// Principal is the verified identity extracted from a bearer token.
type Principal struct {
	UserID string `json:"userID"`
	Role   string `json:"role"`
}

// Verifier checks a bearer token with the auth service and returns the
// principal it carries. Token issuance and validation live outside this
// repository; services only consume the verified result.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// HTTPVerifier calls the auth service's verification endpoint.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier() *HTTPVerifier {
	baseURL := os.Getenv("AUTH_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/v1/auth/verify", nil)
	if err != nil {
		return Principal{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Principal{}, fmt.Errorf("token rejected: status %d", resp.StatusCode)
	}

	var principal Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return Principal{}, fmt.Errorf("auth response decode error: %w", err)
	}

	return principal, nil
}

// Authenticate requires a bearer token and stores the verified principal on
// the request context.
func Authenticate(verifier Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return sharedHTTP.UnauthorizedResponse(c, "missing bearer token")
		}

		principal, err := verifier.Verify(c.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return sharedHTTP.UnauthorizedResponse(c, "invalid token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := FromContext(c)
		if !ok || principal.Role != RoleAdmin {
			return sharedHTTP.ForbiddenResponse(c, "admin role required")
		}
		return c.Next()
	}
}

func FromContext(c *fiber.Ctx) (Principal, bool) {
	principal, ok := c.Locals(principalKey).(Principal)
	return principal, ok
}
