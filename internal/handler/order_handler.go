package handler

import (
	"net/http"
	"strconv"
	"time"

	"shopapi/internal/model"
	"shopapi/internal/service"
	"shopapi/pkg/logger"
	"shopapi/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateOrder handles order creation
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("create")

	var req service.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	order, err := orderService.CreateOrder(req)
	if err != nil {
		log.Error("Failed to create order",
			zap.Uint("customer_id", req.CustomerID),
			zap.Int("items", len(req.Items)),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	prometheus.OrderTotalAmount.Observe(order.TotalAmount)
	log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns all orders, most recent first
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("list")

	orders, err := orderService.ListOrders()
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	log.Info("Orders retrieved", zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns a single order with its customer and line items
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("get")

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := orderService.GetOrder(id)
	if err != nil {
		log.Warn("Order not found", zap.Uint("order_id", id))
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, order)
}

// UpdateOrder mutates the order's shipping address and notes. Order number,
// customer and line items are immutable.
func UpdateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("update")

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req service.UpdateOrderInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := orderService.UpdateOrder(id, req)
	if err != nil {
		log.Error("Failed to update order", zap.Uint("order_id", id), zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	log.Info("Order updated", zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves the order to a new status
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("update_status")

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	order, err := orderService.UpdateOrderStatus(id, req.Status)
	if err != nil {
		log.Error("Failed to update order status",
			zap.Uint("order_id", id),
			zap.String("status", string(req.Status)),
			zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(order.Status)))
	return c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order and restores its items' stock
func CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("cancel")

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	order, err := orderService.CancelOrder(id)
	if err != nil {
		log.Error("Failed to cancel order", zap.Uint("order_id", id), zap.Error(err))
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	log.Info("Order cancelled", zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusOK, order)
}

// parseIDParam reads the :id route parameter
func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
