package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// ctxPrincipal extracts the principal loaded by the Auth middleware and
// fast-fails before any service call: presence proves the middleware ran.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
