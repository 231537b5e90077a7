package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /api/catalog/products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        q      query     string  false  "Search text"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  productListResponse
// @Failure      400    {object}  errorResponse
// @Failure      501    {object}  errorResponse
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	var in ports.ListProductsInput
	err := echo.QueryParamsBinder(c).
		String("q", &in.Search).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.ListProducts(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Items: result.Items, Meta: toPageMeta(result.Page)})
}

// Get handles GET /api/catalog/products/:id.
//
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Failure      501  {object}  errorResponse
// @Router       /api/catalog/products/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}
