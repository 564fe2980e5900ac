// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/upload"
)

// UploadHandler handles product image uploads
type UploadHandler struct {
	uploadService *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadImage handles POST /admin/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "file field required",
		})
		return
	}
	defer file.Close()

	adminEmail := c.GetString("admin_email")

	result, err := h.uploadService.UploadImage(c.Request.Context(), &upload.ImageUploadRequest{
		File:       file,
		Header:     header,
		UploadedBy: adminEmail,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image pinned successfully",
		"data":    result,
	})
}

// ListUploads handles GET /admin/uploads
func (h *UploadHandler) ListUploads(c *gin.Context) {
	files, err := h.uploadService.ListFiles(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list uploads",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Uploads retrieved successfully",
		"data":    files,
	})
}
