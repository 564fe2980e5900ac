// internal/domain/purchase/entity.go
package purchase

import "time"

// Purchase represents one on-chain purchase as shown to the buyer. The
// chain is the source of truth; rows here are decoded contract state, not
// local bookkeeping.
type Purchase struct {
	ID              string `json:"id"`
	ProductID       uint32 `json:"product_id"`
	Quantity        uint32 `json:"quantity"`
	TotalPriceCents uint32 `json:"total_price_cents"`
	Timestamp       int64  `json:"timestamp"`
	Buyer           string `json:"buyer"`
	Minted          bool   `json:"minted"`

	// Placeholder is set when the detail read failed and the row carries
	// only the id. The list never shrinks because of a flaky read.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Record is the Postgres read-through cache of a decoded purchase row.
// Serving repeat listings from here keeps hot pages from looping RPC reads.
type Record struct {
	PurchaseID      string    `gorm:"primaryKey;size:80" json:"purchase_id"`
	ProductID       uint32    `gorm:"not null" json:"product_id"`
	Quantity        uint32    `gorm:"not null" json:"quantity"`
	TotalPriceCents uint32    `gorm:"not null" json:"total_price_cents"`
	Timestamp       int64     `gorm:"not null" json:"timestamp"`
	Buyer           string    `gorm:"index;size:80" json:"buyer"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the table name for the Record model
func (Record) TableName() string {
	return "purchase_records"
}

func (r *Record) toPurchase() Purchase {
	return Purchase{
		ID:              r.PurchaseID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		TotalPriceCents: r.TotalPriceCents,
		Timestamp:       r.Timestamp,
		Buyer:           r.Buyer,
	}
}
