// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/product"
)

// Catalog resolves products for cart mutations. Satisfied by the product
// service.
type Catalog interface {
	GetProduct(ctx context.Context, id uint32) (*product.Product, error)
}

// Service handles session cart business logic. Each visitor session owns one
// cart document in Redis; the pure Store reducer applies every mutation so
// the derived totals can never drift from the stored lines.
type Service struct {
	redisClient *redis.Client
	catalog     Catalog
	config      *config.Config
	ttl         time.Duration
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, catalog Catalog, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		catalog:     catalog,
		config:      cfg,
		ttl:         24 * time.Hour,
	}
}

// GetCart retrieves the cart for a session, creating an empty one if none
// exists yet.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sessionCart), nil
}

// AddItem adds one unit of the product to the session cart. Out-of-stock
// products leave the cart untouched; the response carries a warning instead
// of an error so the storefront can surface a toast without failing the
// request.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID uint32) (*CartResponse, bool, error) {
	prod, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, false, fmt.Errorf("product not found: %w", err)
	}

	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	store := Restore(sessionCart.Items)
	added := store.AddItem(*prod)
	if added {
		sessionCart.Items = store.Items()
		sessionCart.UpdatedAt = time.Now().UTC()
		if err := s.save(ctx, sessionCart); err != nil {
			return nil, false, err
		}
	}

	return s.respond(sessionCart), added, nil
}

// UpdateItem overwrites the quantity of a cart line. Quantity zero removes
// the line.
func (s *Service) UpdateItem(ctx context.Context, sessionID string, productID uint32, quantity uint32) (*CartResponse, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	store := Restore(sessionCart.Items)
	store.SetQuantity(productID, quantity)

	sessionCart.Items = store.Items()
	sessionCart.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, sessionCart); err != nil {
		return nil, err
	}
	return s.respond(sessionCart), nil
}

// RemoveItem deletes a cart line entirely.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID uint32) (*CartResponse, error) {
	return s.UpdateItem(ctx, sessionID, productID, 0)
}

// Clear empties the session cart; called after a confirmed checkout.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}
	return s.redisClient.Del(ctx, s.key(sessionID)).Err()
}

// Lines returns the current line items for checkout preparation.
func (s *Service) Lines(ctx context.Context, sessionID string) ([]LineItem, error) {
	sessionCart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionCart.Items, nil
}

func (s *Service) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required")
	}

	data, err := s.redisClient.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []LineItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(data), &sessionCart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &sessionCart, nil
}

func (s *Service) save(ctx context.Context, sessionCart *SessionCart) error {
	data, err := json.Marshal(sessionCart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, s.key(sessionCart.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Service) respond(sessionCart *SessionCart) *CartResponse {
	store := Restore(sessionCart.Items)
	return &CartResponse{
		SessionID: sessionCart.SessionID,
		Items:     store.Items(),
		Totals:    store.Totals(),
		UpdatedAt: sessionCart.UpdatedAt,
	}
}
