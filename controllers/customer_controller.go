package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/services"
)

// CustomerRequest represents the request body for registering or updating a customer.
// national_id may be formatted ("123.456.789-09").
type CustomerRequest struct {
	Name       *string `json:"name"`
	NationalID *string `json:"national_id"`
}

func (r CustomerRequest) input() services.CustomerInput {
	return services.CustomerInput{Name: r.Name, NationalID: r.NationalID}
}

// ListCustomers handles GET /clientes
func ListCustomers(c *gin.Context) {
	customers, err := services.NewCustomerService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": customers})
}

// GetCustomer handles GET /clientes/:id
func GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	customer, err := services.NewCustomerService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": customer})
}

// CreateCustomer handles POST /clientes/register
func CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	customer, err := services.NewCustomerService(config.GetDB()).Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": customer})
}

// UpdateCustomer handles PUT /clientes/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	customer, err := services.NewCustomerService(config.GetDB()).Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": customer})
}

// DeleteCustomer handles DELETE /clientes/:id
func DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := services.NewCustomerService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Customer deleted successfully"})
}
