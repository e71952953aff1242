package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oltenita/imobilia-market/internal/api/middleware"
	"github.com/oltenita/imobilia-market/internal/core/domain"
)

// requesterID returns the user id the Auth middleware attached. A missing id
// means the route was wired without the middleware, so it fails closed.
func requesterID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.IdentityKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication").SetInternal(domain.ErrUnauthenticated)
	}
	return id, nil
}
