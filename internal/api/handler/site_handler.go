package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/ports"
)

// SiteHandler handles HTTP requests for site operations.
type SiteHandler struct {
	service ports.SiteService
}

func NewSiteHandler(service ports.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// Create handles POST /v1/sites.
//
// @Summary      Create a site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSiteRequest  true  "Site details"
// @Success      201   {object}  siteResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/sites [post]
func (h *SiteHandler) Create(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createSiteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contractValue, err := decimal.NewFromString(req.ContractValue)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "contract_value must be a decimal number")
	}

	site, err := h.service.CreateSite(c.Request().Context(), actor, ports.CreateSiteInput{
		Name:          req.Name,
		Address:       req.Address,
		ContractValue: contractValue,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSiteResponse(site))
}

// Get handles GET /v1/sites/:id.
//
// @Summary      Get a site
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Site id"
// @Success      200 {object}  siteResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/sites/{id} [get]
func (h *SiteHandler) Get(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	site, err := h.service.GetSite(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSiteResponse(site))
}

// List handles GET /v1/sites.
//
// @Summary      List sites visible to the caller
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  listSitesResponse
// @Router       /v1/sites [get]
func (h *SiteHandler) List(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	sites, err := h.service.ListSites(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	items := make([]siteResponse, 0, len(sites))
	for _, s := range sites {
		items = append(items, toSiteResponse(s))
	}
	return c.JSON(http.StatusOK, listSitesResponse{Data: items})
}
