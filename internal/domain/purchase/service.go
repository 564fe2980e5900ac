// internal/domain/purchase/service.go
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// detailFeltCount is the number of words in one get_purchase_details
// response: product id, quantity, total price cents, timestamp, buyer.
const detailFeltCount = 5

// ContractCaller executes read-only contract calls. Satisfied by the
// starknet client.
type ContractCaller interface {
	Call(ctx context.Context, call starknet.Call) ([]string, error)
}

// Service reads purchase history from the store contract and builds the
// receipt-minting call for the wallet to sign.
type Service struct {
	caller ContractCaller
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new purchase service
func NewService(caller ContractCaller, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		caller: caller,
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// ListPurchases returns every purchase recorded for the address. A failed
// detail read yields a zeroed placeholder row carrying just the id; the
// list length always matches what the contract reports.
func (s *Service) ListPurchases(ctx context.Context, address string) ([]Purchase, error) {
	if _, err := starknet.ParseFelt(address); err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	result, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "get_user_purchases",
		Calldata:        []string{address},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	if len(result) == 0 {
		return []Purchase{}, nil
	}

	count, err := feltToUint64(result[0])
	if err != nil {
		return nil, fmt.Errorf("malformed purchase list: %w", err)
	}
	if uint64(len(result)-1) < count {
		return nil, fmt.Errorf("purchase list truncated: declared %d ids, got %d words", count, len(result)-1)
	}

	purchases := make([]Purchase, 0, count)
	for _, word := range result[1 : 1+count] {
		id, err := starknet.ParseFelt(word)
		if err != nil {
			return nil, fmt.Errorf("malformed purchase id %q: %w", word, err)
		}
		p := s.detailFor(ctx, id.Dec(), address)
		p.Minted = s.IsMinted(ctx, p.ID)
		purchases = append(purchases, p)
	}
	return purchases, nil
}

// IsMinted reports whether the NFT receipt for a purchase has been minted.
// Any read failure counts as not minted; the worst case is offering a mint
// the contract will refuse.
func (s *Service) IsMinted(ctx context.Context, purchaseID string) bool {
	id, err := starknet.ParseFelt(purchaseID)
	if err != nil {
		return false
	}
	low, high := starknet.U256Calldata(id)

	result, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "is_purchase_minted",
		Calldata:        []string{low, high},
	})
	if err != nil {
		s.logger.WithError(err).WithField("purchase_id", purchaseID).Debug("Mint status read failed")
		return false
	}
	if len(result) == 0 {
		return false
	}
	v, err := feltToUint64(result[0])
	return err == nil && v != 0
}

// BuildMintCall returns the mint_receipt call for the wallet to sign.
func (s *Service) BuildMintCall(purchaseID string) (*starknet.Call, error) {
	id, err := starknet.ParseFelt(purchaseID)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase id: %w", err)
	}
	low, high := starknet.U256Calldata(id)

	return &starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "mint_receipt",
		Calldata:        []string{low, high},
	}, nil
}

// detailFor resolves one purchase row: cached record first, then the
// contract, then a zeroed placeholder. Purchase details are immutable on
// chain, so a cache hit never goes stale.
func (s *Service) detailFor(ctx context.Context, purchaseID, address string) Purchase {
	if s.db != nil {
		var record Record
		if err := s.db.WithContext(ctx).First(&record, "purchase_id = ?", purchaseID).Error; err == nil {
			return record.toPurchase()
		}
	}

	result, err := s.caller.Call(ctx, starknet.Call{
		ContractAddress: s.config.Starknet.StoreContractAddress,
		EntryPoint:      "get_purchase_details",
		Calldata:        []string{purchaseID},
	})
	if err == nil {
		p, decodeErr := decodeDetail(purchaseID, result)
		if decodeErr == nil {
			s.cacheRecord(ctx, p)
			return p
		}
		err = decodeErr
	}

	s.logger.WithError(err).WithField("purchase_id", purchaseID).Warn("Purchase detail read failed, returning placeholder")
	return Purchase{
		ID:          purchaseID,
		Timestamp:   time.Now().Unix(),
		Buyer:       address,
		Placeholder: true,
	}
}

func (s *Service) cacheRecord(ctx context.Context, p Purchase) {
	if s.db == nil {
		return
	}
	record := Record{
		PurchaseID:      p.ID,
		ProductID:       p.ProductID,
		Quantity:        p.Quantity,
		TotalPriceCents: p.TotalPriceCents,
		Timestamp:       p.Timestamp,
		Buyer:           p.Buyer,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error; err != nil {
		// Cache only; the chain remains authoritative.
		s.logger.WithError(err).Warn("Failed to cache purchase record")
	}
}

func decodeDetail(purchaseID string, words []string) (Purchase, error) {
	if len(words) < detailFeltCount {
		return Purchase{}, fmt.Errorf("purchase detail has %d words, want %d", len(words), detailFeltCount)
	}

	productID, err := feltToUint64(words[0])
	if err != nil {
		return Purchase{}, fmt.Errorf("malformed product id: %w", err)
	}
	quantity, err := feltToUint64(words[1])
	if err != nil {
		return Purchase{}, fmt.Errorf("malformed quantity: %w", err)
	}
	priceCents, err := feltToUint64(words[2])
	if err != nil {
		return Purchase{}, fmt.Errorf("malformed price: %w", err)
	}
	timestamp, err := feltToUint64(words[3])
	if err != nil {
		return Purchase{}, fmt.Errorf("malformed timestamp: %w", err)
	}

	return Purchase{
		ID:              purchaseID,
		ProductID:       uint32(productID),
		Quantity:        uint32(quantity),
		TotalPriceCents: uint32(priceCents),
		Timestamp:       int64(timestamp),
		Buyer:           words[4],
	}, nil
}

func feltToUint64(word string) (uint64, error) {
	v, err := starknet.ParseFelt(word)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("value %s exceeds 64 bits", word)
	}
	return v.Uint64(), nil
}
