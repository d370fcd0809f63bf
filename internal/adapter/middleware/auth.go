package middleware

import (
	"net/http"
	"strings"

	"lendingportal-backend/internal/infrastructure/auth"

	"github.com/labstack/echo/v4"
)

const UserIDKey = "user_id"

// AuthMiddleware resolves the bearer credential through the auth-provider
// collaborator and stores the caller id on the context. Every mutating
// action sits behind this.
func AuthMiddleware(verifier auth.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			userID, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid bearer token"})
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// CallerID returns the authenticated user id, empty when unauthenticated.
func CallerID(c echo.Context) string {
	if v, ok := c.Get(UserIDKey).(string); ok {
		return v
	}
	return ""
}
