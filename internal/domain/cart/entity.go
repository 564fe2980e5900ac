// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
)

// LineItem represents one product line in a cart. A line never exists with
// quantity zero; removal deletes the line instead.
type LineItem struct {
	Product  product.Product `json:"product"`
	Quantity uint32          `json:"quantity"`
}

// Totals represents derived cart totals. Totals are always recomputed from
// the line items, never mutated independently.
type Totals struct {
	TotalItems    uint32  `json:"total_items"`
	TotalPriceUSD float64 `json:"total_price_usd"`
}

// SessionCart is the Redis-persisted form of a visitor's cart. Only the line
// items are stored; totals are derived on load.
type SessionCart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartResponse represents a cart with items and derived totals
type CartResponse struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	Totals    Totals     `json:"totals"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint32 `json:"product_id" binding:"required"`
}

// UpdateItemRequest represents an update-quantity request
type UpdateItemRequest struct {
	Quantity uint32 `json:"quantity"`
}
