package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
)

// ChannelRequest represents the request body for creating or updating a channel
type ChannelRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r ChannelRequest) input() services.ChannelInput {
	return services.ChannelInput{Name: r.Name, Description: r.Description}
}

// ListChannels handles GET /canais
func ListChannels(c *gin.Context) {
	channels, err := services.NewChannelService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": channels})
}

// GetChannel handles GET /canais/:id
func GetChannel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	channel, err := services.NewChannelService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": channel})
}

// CreateChannel handles POST /canais
func CreateChannel(c *gin.Context) {
	var req ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	channel, err := services.NewChannelService(config.GetDB()).Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": channel})
}

// UpdateChannel handles PUT /canais/:id
func UpdateChannel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	channel, err := services.NewChannelService(config.GetDB()).Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": channel})
}

// DeleteChannel handles DELETE /canais/:id
func DeleteChannel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := services.NewChannelService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Channel deleted successfully"})
}
