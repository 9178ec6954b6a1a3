package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// OrderHandler exposes the order lifecycle endpoints.
type OrderHandler struct {
	orders services.OrderService
}

func NewOrderHandler(orders services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Validates stock for every item, creates the order, then applies stock, stats and notification effects
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.PlaceOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(userID, role, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListMyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	orders, total, err := h.orders.ListUserOrders(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Vendors may move orders containing their products to processing, shipped or delivered
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body models.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), userID, role, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder godoc
// @Summary Cancel an order
// @Description Cancels the order and reverses its stock and stats effects
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), userID, role, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListVendorOrders godoc
// @Summary List orders containing a shop's products
// @Tags orders
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /shops/{shopId}/orders [get]
func (h *OrderHandler) ListVendorOrders(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	orders, total, err := h.orders.ListVendorOrders(userID, role, shopID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}
