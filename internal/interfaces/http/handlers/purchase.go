// internal/interfaces/http/handlers/purchase.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/purchase"
)

// PurchaseHandler handles purchase history endpoints
type PurchaseHandler struct {
	purchaseService *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// ListPurchases handles GET /purchases?address=0x...
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "address query parameter required",
		})
		return
	}

	purchases, err := h.purchaseService.ListPurchases(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchases retrieved successfully",
		"data":    purchases,
	})
}

// GetMintStatus handles GET /purchases/:id/minted
func (h *PurchaseHandler) GetMintStatus(c *gin.Context) {
	purchaseID := c.Param("id")

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"purchase_id": purchaseID,
			"minted":      h.purchaseService.IsMinted(c.Request.Context(), purchaseID),
		},
	})
}

// BuildMintCall handles POST /purchases/:id/mint-call
func (h *PurchaseHandler) BuildMintCall(c *gin.Context) {
	call, err := h.purchaseService.BuildMintCall(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mint call built successfully",
		"data":    call,
	})
}

// GetReceiptMetadata handles GET /purchases/:id/metadata. The response is the
// bare ERC-721 metadata document; marketplaces fetch it directly, so it is
// not wrapped in the usual envelope and allows cross-origin reads.
func (h *PurchaseHandler) GetReceiptMetadata(c *gin.Context) {
	metadata, err := h.purchaseService.ReceiptMetadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, purchase.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, metadata)
}

// ReceiptImage handles GET /receipts/image. Query parameters carry the
// purchase data so the image renders without another contract read.
func (h *PurchaseHandler) ReceiptImage(c *gin.Context) {
	tokenID, err := queryUint(c, "token_id", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token_id"})
		return
	}
	productID, err := queryUint(c, "product_id", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}
	amount, err := queryUint(c, "amount", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	quantity, err := queryUint(c, "quantity", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	svg := purchase.RenderReceiptSVG(purchase.ReceiptImage{
		TokenID:     strconv.FormatUint(uint64(tokenID), 10),
		ProductID:   productID,
		Quantity:    quantity,
		AmountCents: amount,
	})

	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// queryUint reads a numeric query parameter, falling back to a default when
// the parameter is absent.
func queryUint(c *gin.Context, name string, fallback uint32) (uint32, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
