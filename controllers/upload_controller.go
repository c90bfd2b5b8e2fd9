package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/utils"
)

// AttachOrderFile handles POST /pedidos/:id/anexo - multipart upload in the "file" field
func AttachOrderFile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_REQUIRED",
				"message": "A file must be sent in the 'file' form field",
			},
		})
		return
	}

	order, err := orderService().AttachFile(c.Request.Context(), id, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetUploadedFile handles GET /uploads/:filename - serves attachments kept on local disk
func GetUploadedFile(c *gin.Context) {
	filename := c.Param("filename")

	if !utils.IsSafeFilename(filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	if _, ok := utils.AllowedAttachmentFormats[strings.ToLower(filepath.Ext(filename))]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Unsupported file type",
			},
		})
		return
	}

	filePath := filepath.Join(uploadDir(), filename)
	if _, err := os.Stat(filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	c.Header("Content-Type", utils.ContentTypeFor(filename))
	c.Header("Cache-Control", "private, max-age=86400")
	c.File(filePath)
}

func uploadDir() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return "./uploads"
}
