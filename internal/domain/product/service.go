// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"math"

	"github.com/holiman/uint256"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// ContractCaller executes read-only calls against the chain.
type ContractCaller interface {
	Call(ctx context.Context, call starknet.Call) ([]string, error)
}

// Service handles product catalog business logic
type Service struct {
	caller ContractCaller
	config *config.Config
}

// NewService creates a new product service
func NewService(caller ContractCaller, cfg *config.Config) *Service {
	return &Service{
		caller: caller,
		config: cfg,
	}
}

// AddItemRequest represents an admin add-product request
type AddItemRequest struct {
	Name     string  `json:"name" binding:"required,max=31"`
	PriceUSD float64 `json:"price_usd" binding:"required,gt=0"`
	Stock    uint32  `json:"stock" binding:"required,min=1"`
	Image    string  `json:"image" binding:"max=31"`
}

// WithdrawRequest represents an admin fund withdrawal request
type WithdrawRequest struct {
	Amount    string `json:"amount" binding:"required"` // smallest token unit, decimal or hex
	Recipient string `json:"recipient" binding:"required"`
}

// Each catalog item serializes as 5 felts: id, name, price, quantity, image.
const itemFeltCount = 5

// ListProducts fetches the full catalog from the store contract.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	words, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "get_all_items",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if len(words) == 0 {
		return []Product{}, nil
	}

	count, err := feltToUint64(words[0])
	if err != nil {
		return nil, fmt.Errorf("malformed catalog length: %w", err)
	}
	if uint64(len(words)-1) < count*itemFeltCount {
		return nil, fmt.Errorf("catalog response truncated: %d items in %d words", count, len(words)-1)
	}

	products := make([]Product, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := decodeItem(words[1+i*itemFeltCount:])
		if err != nil {
			return nil, fmt.Errorf("malformed catalog item %d: %w", i, err)
		}
		products = append(products, item)
	}
	return products, nil
}

// GetProduct fetches a single catalog item by identifier.
func (s *Service) GetProduct(ctx context.Context, id uint32) (*Product, error) {
	words, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "get_item",
		Calldata:        []string{starknet.FeltFromUint64(uint64(id))},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	if len(words) < itemFeltCount {
		return nil, fmt.Errorf("malformed product response: %d words", len(words))
	}

	item, err := decodeItem(words)
	if err != nil {
		return nil, fmt.Errorf("malformed product %d: %w", id, err)
	}
	return &item, nil
}

// BuildAddItemCall builds the add_item invocation for the admin wallet to
// sign. Name and image travel as felt short strings, price as integer cents.
func (s *Service) BuildAddItemCall(req *AddItemRequest) (*starknet.Call, error) {
	nameFelt, err := starknet.EncodeShortString(req.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid product name: %w", err)
	}

	image := req.Image
	if image == "" {
		image = "/placeholder.svg"
	}
	imageFelt, err := starknet.EncodeShortString(image)
	if err != nil {
		return nil, fmt.Errorf("invalid product image reference: %w", err)
	}

	priceCents := uint64(math.Round(req.PriceUSD * 100))
	if priceCents == 0 || priceCents > math.MaxUint32 {
		return nil, fmt.Errorf("price %.2f USD out of range", req.PriceUSD)
	}

	return &starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "add_item",
		Calldata: []string{
			nameFelt,
			starknet.FeltFromUint64(priceCents),
			starknet.FeltFromUint64(uint64(req.Stock)),
			imageFelt,
		},
	}, nil
}

// ContractBalance reads the store contract's token balance in the smallest
// token unit.
func (s *Service) ContractBalance(ctx context.Context) (*uint256.Int, error) {
	words, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "get_contract_balance",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contract balance: %w", err)
	}

	balance, err := starknet.ParseU256(words)
	if err != nil {
		return nil, fmt.Errorf("malformed contract balance: %w", err)
	}
	return balance, nil
}

// BuildWithdrawCall builds the withdraw_tokens invocation for the admin
// wallet to sign.
func (s *Service) BuildWithdrawCall(req *WithdrawRequest) (*starknet.Call, error) {
	amount, err := starknet.ParseFelt(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid withdrawal amount: %w", err)
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}
	if _, err := starknet.ParseFelt(req.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	low, high := starknet.U256Calldata(amount)
	return &starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "withdraw_tokens",
		Calldata:        []string{low, high, req.Recipient},
	}, nil
}

func decodeItem(words []string) (Product, error) {
	if len(words) < itemFeltCount {
		return Product{}, fmt.Errorf("expected %d felts, got %d", itemFeltCount, len(words))
	}

	id, err := feltToUint64(words[0])
	if err != nil {
		return Product{}, fmt.Errorf("bad id: %w", err)
	}
	name, err := starknet.DecodeShortString(words[1])
	if err != nil {
		return Product{}, fmt.Errorf("bad name: %w", err)
	}
	priceCents, err := feltToUint64(words[2])
	if err != nil {
		return Product{}, fmt.Errorf("bad price: %w", err)
	}
	stock, err := feltToUint64(words[3])
	if err != nil {
		return Product{}, fmt.Errorf("bad quantity: %w", err)
	}
	image, err := starknet.DecodeShortString(words[4])
	if err != nil {
		return Product{}, fmt.Errorf("bad image: %w", err)
	}

	return Product{
		ID:         uint32(id),
		Name:       name,
		PriceCents: uint32(priceCents),
		PriceUSD:   float64(priceCents) / 100,
		Stock:      uint32(stock),
		Image:      image,
	}, nil
}

func feltToUint64(word string) (uint64, error) {
	value, err := starknet.ParseFelt(word)
	if err != nil {
		return 0, err
	}
	if !value.IsUint64() {
		return 0, fmt.Errorf("value %s exceeds 64 bits", word)
	}
	return value.Uint64(), nil
}
