package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
)

// StoreRequest represents the request body for creating or updating a store
type StoreRequest struct {
	Name      *string `json:"name"`
	ChannelID *uint   `json:"channel_id"`
}

func (r StoreRequest) input() services.StoreInput {
	return services.StoreInput{Name: r.Name, ChannelID: r.ChannelID}
}

// ListStores handles GET /lojas
func ListStores(c *gin.Context) {
	stores, err := services.NewStoreService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stores})
}

// GetStore handles GET /lojas/:id
func GetStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := services.NewStoreService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": store})
}

// CreateStore handles POST /lojas
func CreateStore(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	store, err := services.NewStoreService(config.GetDB()).Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": store})
}

// UpdateStore handles PUT /lojas/:id
func UpdateStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	store, err := services.NewStoreService(config.GetDB()).Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": store})
}

// DeleteStore handles DELETE /lojas/:id
func DeleteStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := services.NewStoreService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Store deleted successfully"})
}
