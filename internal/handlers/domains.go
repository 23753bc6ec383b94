package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type DomainHandler struct {
	svc *Services
}

func (h *DomainHandler) Search(c echo.Context) error {
	query := c.QueryParam("domain")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "domain query parameter is required"})
	}

	result, err := h.svc.Domains.Search(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *DomainHandler) Whois(c echo.Context) error {
	summary, err := h.svc.Domains.Whois(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
