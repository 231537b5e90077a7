package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/ports"
)

type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /api/cart.
//
// @Summary      Get the current cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  domain.Cart
// @Failure      501  {object}  errorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	cart, err := h.service.GetCart(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string              true  "CSRF token"
// @Param        body          body      addCartItemRequest  true  "Cart line"
// @Success      200           {object}  domain.Cart
// @Failure      403           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Failure      501           {object}  errorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cart, err := h.service.AddItem(c.Request().Context(), ports.AddCartItemInput{
		UserID:    id.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/:id.
//
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        X-CSRF-Token  header    string  true  "CSRF token"
// @Param        id            path      string  true  "Product id"
// @Success      200           {object}  domain.Cart
// @Failure      403           {object}  errorResponse
// @Failure      501           {object}  errorResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	cart, err := h.service.RemoveItem(c.Request().Context(), id.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
