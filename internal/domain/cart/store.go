// internal/domain/cart/store.go
package cart

import (
	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
)

// Store is a pure, dependency-injected cart state container. It performs no
// I/O; callers own persistence and concurrency. Totals are recomputed after
// every mutation so they can never drift from the line items.
type Store struct {
	items  []LineItem
	totals Totals
}

// NewStore creates an empty cart store
func NewStore() *Store {
	return &Store{
		items: []LineItem{},
	}
}

// Restore rebuilds a store from previously persisted line items.
func Restore(items []LineItem) *Store {
	s := &Store{items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		if item.Quantity == 0 {
			continue
		}
		s.items = append(s.items, item)
	}
	s.recalculate()
	return s
}

// AddItem adds one unit of the product, incrementing the quantity if a line
// for the product already exists. Adding an out-of-stock product is a no-op;
// the caller surfaces the warning.
func (s *Store) AddItem(p product.Product) bool {
	if !p.InStock() {
		return false
	}

	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity++
			s.recalculate()
			return true
		}
	}

	s.items = append(s.items, LineItem{Product: p, Quantity: 1})
	s.recalculate()
	return true
}

// RemoveItem deletes the line for the product entirely, regardless of its
// quantity.
func (s *Store) RemoveItem(productID uint32) {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.recalculate()
}

// SetQuantity overwrites the line's quantity. A quantity of zero removes the
// line. No upper bound is enforced here; the contract is the source of truth
// for stock and rejects over-quantity purchases.
func (s *Store) SetQuantity(productID uint32, quantity uint32) {
	if quantity == 0 {
		s.RemoveItem(productID)
		return
	}

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.recalculate()
}

// Clear empties all lines; called after a confirmed checkout.
func (s *Store) Clear() {
	s.items = s.items[:0]
	s.recalculate()
}

// Items returns a copy of the current line items.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals returns the derived totals for the current line items.
func (s *Store) Totals() Totals {
	return s.totals
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) recalculate() {
	var totals Totals
	for _, item := range s.items {
		totals.TotalItems += item.Quantity
		totals.TotalPriceUSD += item.Product.PriceUSD * float64(item.Quantity)
	}
	s.totals = totals
}
