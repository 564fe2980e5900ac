// internal/domain/product/entity.go
package product

// Product is the read-only catalog view served to the storefront. The store
// contract owns the authoritative record; this is a per-request decode of
// what the chain returned.
type Product struct {
	ID         uint32  `json:"id"`
	Name       string  `json:"name"`
	PriceCents uint32  `json:"price_cents"` // authoritative unit from the contract
	PriceUSD   float64 `json:"price_usd"`
	Stock      uint32  `json:"stock"`
	Image      string  `json:"image"`
}

// InStock reports whether the product can currently be added to a cart.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
