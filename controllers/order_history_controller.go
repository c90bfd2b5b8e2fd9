package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppendUpdateRequest represents the request body for a progress note
type AppendUpdateRequest struct {
	Description string `json:"description" binding:"required"`
}

// FinalizeOrderRequest represents the request body for closing an order
type FinalizeOrderRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// AppendOrderUpdate handles POST /pedidos/:id/atualizacoes - adds a note to the order history
func AppendOrderUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AppendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().AppendUpdate(c.Request.Context(), id, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrderHistory handles GET /pedidos/:id/historico
func GetOrderHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entries, err := orderService().History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// FinalizeOrder handles POST /pedidos/:id/finalizar
func FinalizeOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req FinalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().Finalize(c.Request.Context(), id, req.Resolution)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
