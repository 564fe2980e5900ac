// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
)

// AdminHandler handles store management endpoints. Writes never execute
// server-side; each endpoint returns a prepared contract call for the admin
// wallet to sign.
type AdminHandler struct {
	productService *product.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(productService *product.Service) *AdminHandler {
	return &AdminHandler{
		productService: productService,
	}
}

// BuildAddItemCall handles POST /admin/products
func (h *AdminHandler) BuildAddItemCall(c *gin.Context) {
	var req product.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	call, err := h.productService.BuildAddItemCall(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Add item call built successfully",
		"data":    call,
	})
}

// GetBalance handles GET /admin/balance
func (h *AdminHandler) GetBalance(c *gin.Context) {
	balance, err := h.productService.ContractBalance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to read contract balance",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"balance": balance.Dec(),
		},
	})
}

// BuildWithdrawCall handles POST /admin/withdraw-call
func (h *AdminHandler) BuildWithdrawCall(c *gin.Context) {
	var req product.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	call, err := h.productService.BuildWithdrawCall(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Withdraw call built successfully",
		"data":    call,
	})
}
