package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylespizza/pizza-api/internal/models"
	"github.com/stylespizza/pizza-api/internal/services"
)

// OrderController handles HTTP requests related to orders
type OrderController interface {
	// CreateOrder creates a new order with its items
	CreateOrder(c *gin.Context)
	// GetOrder retrieves a single order with its items
	GetOrder(c *gin.Context)
	// GetOrders lists all orders (admin/staff)
	GetOrders(c *gin.Context)
	// GetOrdersByCustomer lists a customer's orders
	GetOrdersByCustomer(c *gin.Context)
	// UpdateOrderStatus updates the order status axis
	UpdateOrderStatus(c *gin.Context)
	// UpdatePaymentStatus updates the payment status axis
	UpdatePaymentStatus(c *gin.Context)
	// UpdateDeliveryStatus updates the delivery status axis
	UpdateDeliveryStatus(c *gin.Context)
	// DeleteOrder deletes an order and its items
	DeleteOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) OrderController {
	return &orderController{service: service}
}

// CreateOrder godoc
// @Summary Create a new order
// @Description Create an order with its line items in one transaction
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.CreateOrderRequest true "Order payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondValidationError(ctx, err)
		return
	}

	order, err := c.service.CreateOrder(userID, &req)
	if err != nil {
		respondServiceError(ctx, err, "Order creation failed")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
		"message": "Order created successfully",
	})
}

// GetOrder godoc
// @Summary Get a single order
// @Description Get an order with its items; owners and admins only
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (c *orderController) GetOrder(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	order, err := c.service.GetOrder(orderID, userID, currentUserRole(ctx))
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve order")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// GetOrders godoc
// @Summary List all orders
// @Description List orders with optional status filter and pagination (admin/staff)
// @Tags orders
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter by order status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (c *orderController) GetOrders(ctx *gin.Context) {
	page, limit := parsePagination(ctx, 10)
	status := models.OrderStatus(ctx.Query("status"))

	orders, total, err := c.service.ListOrders(page, limit, status)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve orders")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": models.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// GetOrdersByCustomer godoc
// @Summary List a customer's orders
// @Description List orders for a customer; zero orders yield an empty page
// @Tags orders
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/orders/customer/{customerId} [get]
func (c *orderController) GetOrdersByCustomer(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		respondError(ctx, http.StatusUnauthorized, "Unauthorized access, user not logged in", nil)
		return
	}

	customerID, ok := parseIDParam(ctx, "customerId")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid customer ID", nil)
		return
	}

	page, limit := parsePagination(ctx, 10)
	orders, total, err := c.service.ListOrdersByCustomer(customerID, page, limit)
	if err != nil {
		respondServiceError(ctx, err, "Failed to retrieve customer orders")
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": models.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body object{status=string} true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [put]
func (c *orderController) UpdateOrderStatus(ctx *gin.Context) {
	c.updateStatusAxis(ctx, func(orderID uint, body statusUpdateRequest) (*models.Order, error) {
		return c.service.UpdateStatus(orderID, models.OrderStatus(body.Status))
	}, "Order status updated")
}

// UpdatePaymentStatus godoc
// @Summary Update payment status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body object{payment_status=string} true "New payment status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/payment-status [put]
func (c *orderController) UpdatePaymentStatus(ctx *gin.Context) {
	c.updateStatusAxis(ctx, func(orderID uint, body statusUpdateRequest) (*models.Order, error) {
		return c.service.UpdatePaymentStatus(orderID, models.PaymentStatus(body.PaymentStatus))
	}, "Payment status updated")
}

// UpdateDeliveryStatus godoc
// @Summary Update delivery status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param body body object{delivery_status=string} true "New delivery status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/delivery-status [put]
func (c *orderController) UpdateDeliveryStatus(ctx *gin.Context) {
	c.updateStatusAxis(ctx, func(orderID uint, body statusUpdateRequest) (*models.Order, error) {
		return c.service.UpdateDeliveryStatus(orderID, models.DeliveryStatus(body.DeliveryStatus))
	}, "Delivery status updated")
}

// statusUpdateRequest covers the three single-field status bodies; each
// endpoint reads only its own field.
type statusUpdateRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	DeliveryStatus string `json:"delivery_status"`
}

func (c *orderController) updateStatusAxis(ctx *gin.Context, update func(uint, statusUpdateRequest) (*models.Order, error), message string) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	var body statusUpdateRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	order, err := update(orderID, body)
	if err != nil {
		respondServiceError(ctx, err, "Failed to update order status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
		"message": message,
	})
}

// DeleteOrder godoc
// @Summary Delete an order
// @Description Delete an order and its items in one transaction (admin/staff)
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id} [delete]
func (c *orderController) DeleteOrder(ctx *gin.Context) {
	orderID, ok := parseIDParam(ctx, "id")
	if !ok {
		respondError(ctx, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	if err := c.service.DeleteOrder(orderID); err != nil {
		respondServiceError(ctx, err, "Failed to delete order")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted successfully",
	})
}
