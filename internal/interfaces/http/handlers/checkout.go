// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/checkout"
)

// CheckoutHandler handles checkout session endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PrepareRequest is the body for POST /checkout/prepare
type PrepareRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// SubmittedRequest is the body for POST /checkout/:id/submitted
type SubmittedRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

// Prepare handles POST /checkout/prepare
func (h *CheckoutHandler) Prepare(c *gin.Context) {
	sessionID := h.sessionID(c)

	var req PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.checkoutService.Prepare(c.Request.Context(), sessionID, req.WalletAddress)
	if err != nil {
		if errors.Is(err, checkout.ErrCheckoutInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout prepared successfully",
		"data":    session,
	})
}

// Submitted handles POST /checkout/:id/submitted
func (h *CheckoutHandler) Submitted(c *gin.Context) {
	var req SubmittedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	session, err := h.checkoutService.ReportSubmitted(c.Request.Context(), c.Param("id"), req.TxHash)
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction recorded, awaiting confirmation",
		"data":    session,
	})
}

// Rejected handles POST /checkout/:id/rejected
func (h *CheckoutHandler) Rejected(c *gin.Context) {
	session, err := h.checkoutService.ReportRejected(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout rejection recorded",
		"data":    session,
	})
}

// GetSession handles GET /checkout/:id
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, err := h.checkoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout session retrieved successfully",
		"data":    session,
	})
}

func (h *CheckoutHandler) writeSessionError(c *gin.Context, err error) {
	if errors.Is(err, checkout.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Checkout session not found",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}

func (h *CheckoutHandler) sessionID(c *gin.Context) string {
	if sessionID := c.GetHeader("X-Session-ID"); sessionID != "" {
		return sessionID
	}

	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie("session_id", sessionID, 86400, "/", "", false, true)
	}
	return sessionID
}
