package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/services"
)

// respondError writes the error envelope for a service error.
// Internal causes are logged and never sent to the client.
func respondError(c *gin.Context, err error) {
	svcErr := services.AsError(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(svcErr, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(svcErr, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(svcErr, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(svcErr, services.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(svcErr, services.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"request_id", middleware.GetRequestID(c),
			"path", c.Request.URL.Path,
			"error", svcErr.Message,
			"cause", svcErr.Cause,
		)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    svcErr.Code,
			"message": svcErr.Message,
		},
	})
}

// respondBindError writes a 400 for a request body that failed binding
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// parseID reads a positive numeric path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + name,
			},
		})
		return 0, false
	}
	return uint(id), true
}
