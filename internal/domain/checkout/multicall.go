// internal/domain/checkout/multicall.go
package checkout

import (
	"fmt"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/payment"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// BuildCheckoutBatch assembles the ordered call list a wallet signs as one
// atomic transaction. When the existing allowance does not cover the plan,
// an approve for the store contract goes first; the purchase call is always
// last. Exactly one purchase call is emitted regardless of line count, so a
// multi-item cart settles in a single contract invocation.
func BuildCheckoutBatch(cfg *config.Config, lines []cart.LineItem, plan *payment.Plan, allowanceOK bool) ([]starknet.Call, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("cannot build checkout batch for empty cart")
	}
	if plan == nil || plan.TokenAmount == nil {
		return nil, fmt.Errorf("payment plan required")
	}

	amountLow, amountHigh := starknet.U256Calldata(plan.TokenAmount)

	var calls []starknet.Call
	if !allowanceOK {
		calls = append(calls, starknet.Call{
			ContractAddress: cfg.Starknet.TokenContractAddress,
			EntryPoint:      "approve",
			Calldata:        []string{cfg.Starknet.StoreContractAddress, amountLow, amountHigh},
		})
	}

	if len(lines) == 1 {
		line := lines[0]
		calls = append(calls, starknet.Call{
			ContractAddress: cfg.Starknet.StoreContractAddress,
			EntryPoint:      "buy_product",
			Calldata: []string{
				starknet.FeltFromUint64(uint64(line.Product.ID)),
				starknet.FeltFromUint64(uint64(line.Quantity)),
				starknet.FeltFromUint64(uint64(line.Product.PriceCents)),
				amountLow,
				amountHigh,
			},
		})
		return calls, nil
	}

	// buy_multiple_products takes a length-prefixed flattened array of
	// (id, quantity, unit price cents) triples, then the total payment.
	calldata := []string{starknet.FeltFromUint64(uint64(len(lines)))}
	for _, line := range lines {
		calldata = append(calldata,
			starknet.FeltFromUint64(uint64(line.Product.ID)),
			starknet.FeltFromUint64(uint64(line.Quantity)),
			starknet.FeltFromUint64(uint64(line.Product.PriceCents)),
		)
	}
	calldata = append(calldata, amountLow, amountHigh)

	calls = append(calls, starknet.Call{
		ContractAddress: cfg.Starknet.StoreContractAddress,
		EntryPoint:      "buy_multiple_products",
		Calldata:        calldata,
	})
	return calls, nil
}
