// internal/domain/payment/calculator.go
package payment

import (
	"fmt"
	"math"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
)

// Plan is the derived, ephemeral payment requirement for one checkout
// attempt. It is computed fresh every attempt and never persisted; on-chain
// state can change between attempts.
type Plan struct {
	// TokenAmount is the required payment in the smallest token unit,
	// always rounded up. Under-funding causes on-chain rejection while the
	// contract only ever pulls the exact required amount, so ceil is safe
	// and floor is not.
	TokenAmount *uint256.Int

	// TotalPriceCents is the USD cart total in integer cents, matched
	// against the contract's per-item price representation.
	TotalPriceCents uint32

	TokenPriceUSD    float64
	BufferMultiplier float64
}

// Calculator converts USD cart totals into the integer token amounts the
// contract calldata requires.
type Calculator struct {
	config *config.Config
}

// NewCalculator creates a new payment calculator
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{
		config: cfg,
	}
}

// BufferFor returns the configured safety buffer for a cart of the given
// line count. The buffer absorbs oracle price drift between the estimate
// and settlement; multi-line carts get the larger multiplier.
func (c *Calculator) BufferFor(lineCount int) float64 {
	if lineCount > 1 {
		return c.config.Checkout.MultiItemBuffer
	}
	return c.config.Checkout.SingleItemBuffer
}

// PlanPayment computes the payment plan for a cart total at the given token
// price estimate. tokenPriceUSD must be positive; callers obtain it from the
// price client, which already substitutes the fallback on feed failure.
func (c *Calculator) PlanPayment(totalPriceUSD, tokenPriceUSD, buffer float64) (*Plan, error) {
	if totalPriceUSD <= 0 {
		return nil, fmt.Errorf("cart total must be positive, got %v", totalPriceUSD)
	}
	if tokenPriceUSD <= 0 {
		return nil, fmt.Errorf("token price must be positive, got %v", tokenPriceUSD)
	}
	if buffer < 1.0 {
		return nil, fmt.Errorf("buffer multiplier must be >= 1.0, got %v", buffer)
	}

	total := decimal.NewFromFloat(totalPriceUSD)
	price := decimal.NewFromFloat(tokenPriceUSD)
	scale := decimal.New(1, int32(c.config.Checkout.TokenDecimals))

	// tokens = totalUSD / priceUSD * buffer, then scaled to the smallest
	// unit and rounded up.
	tokens := total.Div(price).Mul(decimal.NewFromFloat(buffer))
	smallestUnit := tokens.Mul(scale).Ceil()

	amount, overflow := uint256.FromBig(smallestUnit.BigInt())
	if overflow {
		return nil, fmt.Errorf("token amount overflows 256 bits")
	}

	cents := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 || cents > math.MaxUint32 {
		return nil, fmt.Errorf("cart total %v USD out of contract range", totalPriceUSD)
	}

	return &Plan{
		TokenAmount:      amount,
		TotalPriceCents:  uint32(cents),
		TokenPriceUSD:    tokenPriceUSD,
		BufferMultiplier: buffer,
	}, nil
}
