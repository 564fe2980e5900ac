// internal/domain/checkout/allowance.go
package checkout

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// ContractCaller executes read-only contract calls. Satisfied by the
// starknet client.
type ContractCaller interface {
	Call(ctx context.Context, call starknet.Call) ([]string, error)
}

// AllowanceChecker reads the token allowance granted by a wallet to the
// store contract.
type AllowanceChecker struct {
	caller ContractCaller
	config *config.Config
	logger *logrus.Logger
}

// NewAllowanceChecker creates a new allowance checker
func NewAllowanceChecker(caller ContractCaller, cfg *config.Config, logger *logrus.Logger) *AllowanceChecker {
	return &AllowanceChecker{
		caller: caller,
		config: cfg,
		logger: logger,
	}
}

// HasSufficientAllowance reports whether owner has approved at least the
// required amount for the store contract. It fails closed: any read or
// decode error counts as insufficient, which at worst adds a redundant
// approve call to the batch.
func (a *AllowanceChecker) HasSufficientAllowance(ctx context.Context, owner string, required *uint256.Int) bool {
	result, err := a.caller.Call(ctx, starknet.Call{
		ContractAddress: a.config.Starknet.TokenContractAddress,
		EntryPoint:      "allowance",
		Calldata:        []string{owner, a.config.Starknet.StoreContractAddress},
	})
	if err != nil {
		a.logger.WithError(err).WithField("owner", owner).Warn("Allowance read failed, assuming insufficient")
		return false
	}

	allowance, err := starknet.ParseU256(result)
	if err != nil {
		a.logger.WithError(err).Warn("Allowance response malformed, assuming insufficient")
		return false
	}

	return !allowance.Lt(required)
}
