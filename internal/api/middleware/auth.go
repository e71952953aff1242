package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oltenita/imobilia-market/internal/core/domain"
	"github.com/oltenita/imobilia-market/internal/core/ports"
)

// IdentityKey is the echo context key holding the verified user id.
const IdentityKey = "identity_id"

// Auth verifies the bearer token and stores its subject under IdentityKey.
// Every rejection is a 401 wrapping domain.ErrUnauthenticated.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized("missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return unauthorized("invalid authorization header")
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				c.Logger().Debugf("token rejected: %v", err)
				return unauthorized("invalid or expired token")
			}

			c.Set(IdentityKey, subject)
			return next(c)
		}
	}
}

func unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(domain.ErrUnauthenticated)
}
