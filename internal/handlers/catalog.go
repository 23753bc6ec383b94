package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"hostify/internal/models"
)

type CatalogHandler struct {
	svc *Services
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.svc.Catalog.ListProducts(c.QueryParam("category"), c.QueryParam("featured") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.svc.Catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.svc.Catalog.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) ListTlds(c echo.Context) error {
	tlds, err := h.svc.Catalog.ListTlds(true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tlds)
}

func (h *CatalogHandler) AdminSaveProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product payload"})
	}
	if id, err := strconv.ParseUint(c.Param("id"), 10, 64); err == nil {
		product.ID = uint(id)
	}
	if err := h.svc.Catalog.SaveProduct(&product); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) AdminDeleteProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Catalog.DeleteProduct(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) AdminSaveTld(c echo.Context) error {
	var tld models.DomainTld
	if err := c.Bind(&tld); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tld payload"})
	}
	if id, err := strconv.ParseUint(c.Param("id"), 10, 64); err == nil {
		tld.ID = uint(id)
	}
	if err := h.svc.Catalog.SaveTld(&tld); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tld)
}

func (h *CatalogHandler) AdminDeleteTld(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.svc.Catalog.DeleteTld(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
