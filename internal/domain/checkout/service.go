// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/payment"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/monitoring"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

var (
	// ErrSessionNotFound is returned when no checkout session exists for an id.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrCheckoutInFlight is returned when the cart already has an
	// unfinished checkout attempt.
	ErrCheckoutInFlight = errors.New("checkout already in progress for this cart")
)

// CartAccess is the slice of the cart service checkout needs.
type CartAccess interface {
	Lines(ctx context.Context, sessionID string) ([]cart.LineItem, error)
	Clear(ctx context.Context, sessionID string) error
}

// PriceSource supplies the token price estimate.
type PriceSource interface {
	TokenUSDPrice(ctx context.Context) float64
}

// AllowanceSource reports whether a wallet's current approval covers an
// amount.
type AllowanceSource interface {
	HasSufficientAllowance(ctx context.Context, owner string, required *uint256.Int) bool
}

// ReceiptReader polls transaction receipts. Satisfied by the starknet
// client.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash string) (*starknet.Receipt, error)
}

// SessionStore is the slice of the redis client the checkout flow uses for
// session persistence and the in-flight marker.
type SessionStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Service drives checkout sessions from preparation through confirmation.
// Wallets sign client-side, so the flow is: Prepare builds the call batch,
// the storefront reports the resulting transaction hash (or the user's
// rejection), and the receipt watcher settles the outcome.
type Service struct {
	store       SessionStore
	carts       CartAccess
	prices      PriceSource
	calculator  *payment.Calculator
	allowance   AllowanceSource
	receipts    ReceiptReader
	config      *config.Config
	logger      *logrus.Logger
	stopChan    chan struct{}
}

// NewService creates a new checkout service
func NewService(
	store SessionStore,
	carts CartAccess,
	prices PriceSource,
	calculator *payment.Calculator,
	allowance AllowanceSource,
	receipts ReceiptReader,
	cfg *config.Config,
	logger *logrus.Logger,
) *Service {
	return &Service{
		store:       store,
		carts:       carts,
		prices:      prices,
		calculator:  calculator,
		allowance:   allowance,
		receipts:    receipts,
		config:      cfg,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Close stops all running receipt watchers. Sessions left in
// AwaitingConfirmation stay as they are; a restarted process serves their
// last persisted state.
func (s *Service) Close() {
	close(s.stopChan)
}

// Prepare builds a new checkout session for the cart: current token price,
// payment plan, allowance check and the ordered call batch for the wallet to
// sign. One unfinished attempt per cart at a time.
func (s *Service) Prepare(ctx context.Context, cartSessionID, walletAddress string) (*Session, error) {
	if _, err := starknet.ParseFelt(walletAddress); err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	if err := s.guardInFlight(ctx, cartSessionID); err != nil {
		return nil, err
	}

	lines, err := s.carts.Lines(ctx, cartSessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	totals := cart.Restore(lines).Totals()
	price := s.prices.TokenUSDPrice(ctx)
	buffer := s.calculator.BufferFor(len(lines))

	plan, err := s.calculator.PlanPayment(totals.TotalPriceUSD, price, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to plan payment: %w", err)
	}

	allowanceOK := s.allowance.HasSufficientAllowance(ctx, walletAddress, plan.TokenAmount)

	calls, err := BuildCheckoutBatch(s.config, lines, plan, allowanceOK)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &Session{
		ID:            uuid.New().String(),
		CartSessionID: cartSessionID,
		WalletAddress: walletAddress,
		Status:        StatusSubmitting,
		Lines:         lines,
		Plan: PlanSummary{
			TokenAmount:      plan.TokenAmount.Dec(),
			TotalPriceCents:  plan.TotalPriceCents,
			TokenPriceUSD:    plan.TokenPriceUSD,
			BufferMultiplier: plan.BufferMultiplier,
		},
		Calls:     calls,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, s.activeKey(cartSessionID), session.ID, s.config.Checkout.SessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to mark checkout active: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"checkout_id":  session.ID,
		"wallet":       walletAddress,
		"line_count":   len(lines),
		"token_amount": session.Plan.TokenAmount,
		"approve":      !allowanceOK,
	}).Info("Checkout prepared")

	return session, nil
}

// ReportSubmitted records the transaction hash the wallet returned and
// starts watching for its receipt.
func (s *Service) ReportSubmitted(ctx context.Context, checkoutID, txHash string) (*Session, error) {
	if _, err := starknet.ParseFelt(txHash); err != nil {
		return nil, fmt.Errorf("invalid transaction hash: %w", err)
	}

	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	if err := session.MarkSubmitted(txHash); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	go s.watch(session.ID, txHash)

	s.logger.WithFields(logrus.Fields{
		"checkout_id": session.ID,
		"tx_hash":     txHash,
	}).Info("Checkout submitted, watching for receipt")

	return session, nil
}

// ReportRejected records that the user declined to sign. The cart is left
// intact for another attempt.
func (s *Service) ReportRejected(ctx context.Context, checkoutID string) (*Session, error) {
	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}

	if err := session.MarkRejected(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.clearActive(ctx, session)
	monitoring.CheckoutsTotal.WithLabelValues("rejected").Inc()

	s.logger.WithField("checkout_id", session.ID).Info("Checkout rejected by user")
	return session, nil
}

// Get returns the session by id.
func (s *Service) Get(ctx context.Context, checkoutID string) (*Session, error) {
	data, err := s.store.Get(ctx, s.sessionKey(checkoutID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

func (s *Service) guardInFlight(ctx context.Context, cartSessionID string) error {
	activeID, err := s.store.Get(ctx, s.activeKey(cartSessionID)).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check active checkout: %w", err)
	}

	active, err := s.Get(ctx, activeID)
	if err != nil {
		// Stale marker without a session: safe to start over.
		return nil
	}
	if active.Status.InFlight() {
		return ErrCheckoutInFlight
	}
	return nil
}

func (s *Service) clearActive(ctx context.Context, session *Session) {
	if err := s.store.Del(ctx, s.activeKey(session.CartSessionID)).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to clear active checkout marker")
	}
}

func (s *Service) save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	if err := s.store.Set(ctx, s.sessionKey(session.ID), data, s.config.Checkout.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

func (s *Service) sessionKey(checkoutID string) string {
	return fmt.Sprintf("checkout:session:%s", checkoutID)
}

func (s *Service) activeKey(cartSessionID string) string {
	return fmt.Sprintf("checkout:active:%s", cartSessionID)
}
