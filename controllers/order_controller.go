package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/models"
	"github.com/kendall-kelly/pedidos-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	OrderNumber  string          `json:"order_number" binding:"required"`
	TicketNumber *string         `json:"ticket_number"`
	Description  string          `json:"description" binding:"required"`
	Resolution   *string         `json:"resolution"`
	ExternalCode *string         `json:"external_code"`
	Priority     models.Priority `json:"priority" binding:"required"`
	Status       models.Status   `json:"status"`
	CustomerID   uint            `json:"customer_id" binding:"required"`
	StoreID      uint            `json:"store_id" binding:"required"`
	CreatedByID  *uint           `json:"created_by_id"`
}

// UpdateOrderRequest represents the request body for updating an order; the order number is not accepted
type UpdateOrderRequest struct {
	TicketNumber *string          `json:"ticket_number"`
	Description  *string          `json:"description"`
	Resolution   *string          `json:"resolution"`
	ExternalCode *string          `json:"external_code"`
	Priority     *models.Priority `json:"priority"`
	Status       *models.Status   `json:"status"`
	CustomerID   *uint            `json:"customer_id"`
	StoreID      *uint            `json:"store_id"`
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB()).WithAttachments(services.GetAttachmentService())
}

// CreateOrder handles POST /pedidos/register - opens an order, created by the session user unless specified
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	createdByID := req.CreatedByID
	if createdByID == nil {
		userID, err := middleware.GetUserID(c)
		if err == nil {
			createdByID = &userID
		}
	}

	order, err := orderService().Create(c.Request.Context(), services.CreateOrderInput{
		OrderNumber:  req.OrderNumber,
		TicketNumber: req.TicketNumber,
		Description:  req.Description,
		Resolution:   req.Resolution,
		ExternalCode: req.ExternalCode,
		Priority:     req.Priority,
		Status:       req.Status,
		CustomerID:   req.CustomerID,
		StoreID:      req.StoreID,
		CreatedByID:  createdByID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /pedidos - lists orders, escalating stale priorities
func ListOrders(c *gin.Context) {
	orders, err := orderService().List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrderSummary handles GET /pedidos/summary
func GetOrderSummary(c *gin.Context) {
	summary, err := orderService().Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// GetOrder handles GET /pedidos/:id
func GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := orderService().Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /pedidos/:id
func UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().Update(c.Request.Context(), id, services.UpdateOrderInput{
		TicketNumber: req.TicketNumber,
		Description:  req.Description,
		Resolution:   req.Resolution,
		ExternalCode: req.ExternalCode,
		Priority:     req.Priority,
		Status:       req.Status,
		CustomerID:   req.CustomerID,
		StoreID:      req.StoreID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /pedidos/:id
func DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := orderService().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted successfully",
	})
}
