package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// AuthHandler handles registration, login, invites, and site grants.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /auth/register. It creates a tenant root admin.
//
// @Summary      Register a company and its root admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  principalResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPrincipalResponse(p))
}

// Login handles POST /auth/login. It verifies credentials and issues a token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, p, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: toPrincipalResponse(p)})
}

// Invite handles POST /v1/users/invite, where an admin creates a teammate.
//
// @Summary      Invite a teammate into the admin's company
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      inviteRequest  true  "Invite details"
// @Success      201   {object}  principalResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/users/invite [post]
func (h *AuthHandler) Invite(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Invite(c.Request().Context(), actor, ports.InviteInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPrincipalResponse(p))
}

// GrantSiteAccess handles POST /v1/users/:id/site-access, where an admin grants a
// client principal explicit access to one site.
//
// @Summary      Grant a client principal access to a site
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Principal id"
// @Param        body  body      siteAccessRequest  true  "Site grant"
// @Success      204   "granted"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/site-access [post]
func (h *AuthHandler) GrantSiteAccess(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req siteAccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.GrantSiteAccess(c.Request().Context(), actor, c.Param("id"), req.SiteID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
