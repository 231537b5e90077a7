package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// OrderHandler serves both the buyer's order pages and the admin order
// back office; the Gate decides who reaches which.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /api/orders.
//
// @Summary      List the buyer's orders
// @Tags         orders
// @Produce      json
// @Param        status  query     string  false  "Order status"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  orderListResponse
// @Failure      501     {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	return h.list(c, id.UserID)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Failure      501  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Place handles POST /api/orders.
//
// @Summary      Check out the cart
// @Tags         orders
// @Produce      json
// @Param        X-CSRF-Token     header    string  true   "CSRF token"
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate orders"
// @Success      201              {object}  domain.Order
// @Failure      403              {object}  errorResponse
// @Failure      501              {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.PlaceOrder(c.Request().Context(), ports.PlaceOrderInput{
		UserID:         id.UserID,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// AdminList handles GET /api/admin/orders.
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "Order status"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  orderListResponse
// @Failure      302
// @Failure      501     {object}  errorResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) AdminList(c echo.Context) error {
	return h.list(c, "")
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status.
//
// @Summary      Change an order's status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-CSRF-Token  header    string                    true  "CSRF token"
// @Param        id            path      string                    true  "Order id"
// @Param        body          body      updateOrderStatusRequest  true  "New status"
// @Success      200           {object}  domain.Order
// @Failure      403           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Failure      501           {object}  errorResponse
// @Router       /api/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) list(c echo.Context, userID string) error {
	in := ports.ListOrdersInput{UserID: userID}
	err := echo.QueryParamsBinder(c).
		String("status", &in.Status).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.ListOrders(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Items: result.Items, Meta: toPageMeta(result.Page)})
}
