package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/redis/go-redis/v9"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/domain/payment"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

const testWallet = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// fakeSessionStore is a map-backed SessionStore.
type fakeSessionStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: make(map[string]string)}
}

func (f *fakeSessionStore) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeSessionStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.data[key] = v
	case []byte:
		f.data[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeSessionStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeSessionStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

type fakeCarts struct {
	mu      sync.Mutex
	lines   []cart.LineItem
	cleared bool
}

func (f *fakeCarts) Lines(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines, nil
}

func (f *fakeCarts) Clear(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	return nil
}

func (f *fakeCarts) wasCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

type fakePrices struct{ price float64 }

func (f *fakePrices) TokenUSDPrice(ctx context.Context) float64 { return f.price }

type fakeAllowance struct{ sufficient bool }

func (f *fakeAllowance) HasSufficientAllowance(ctx context.Context, owner string, required *uint256.Int) bool {
	return f.sufficient
}

type fakeReceipts struct {
	mu      sync.Mutex
	receipt *starknet.Receipt
	err     error
}

func (f *fakeReceipts) TransactionReceipt(ctx context.Context, txHash string) (*starknet.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

type serviceFixture struct {
	service  *Service
	store    *fakeSessionStore
	carts    *fakeCarts
	receipts *fakeReceipts
	cfg      *config.Config
}

func newServiceFixture(t *testing.T, lines []cart.LineItem, receipts *fakeReceipts) *serviceFixture {
	t.Helper()

	cfg := checkoutConfig()
	cfg.Checkout.SessionTTL = time.Minute
	cfg.Starknet.ReceiptPollInterval = 5 * time.Millisecond

	store := newFakeSessionStore()
	carts := &fakeCarts{lines: lines}
	service := NewService(
		store, carts, &fakePrices{price: 2.00}, payment.NewCalculator(cfg),
		&fakeAllowance{sufficient: false}, receipts, cfg, quietLogger(),
	)
	t.Cleanup(service.Close)

	return &serviceFixture{service: service, store: store, carts: carts, receipts: receipts, cfg: cfg}
}

func TestPrepareBuildsSessionAndGuardsReentry(t *testing.T) {
	f := newServiceFixture(t, singleLine(), &fakeReceipts{err: starknet.ErrReceiptNotFound})
	ctx := context.Background()

	session, err := f.service.Prepare(ctx, "cart-1", testWallet)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if session.Status != StatusSubmitting {
		t.Errorf("status = %s, want %s", session.Status, StatusSubmitting)
	}
	if len(session.Calls) == 0 {
		t.Error("expected a call batch")
	}
	if !f.store.has("checkout:active:cart-1") {
		t.Error("expected an active checkout marker")
	}

	if _, err := f.service.Prepare(ctx, "cart-1", testWallet); !errors.Is(err, ErrCheckoutInFlight) {
		t.Errorf("second Prepare error = %v, want ErrCheckoutInFlight", err)
	}

	// A different cart is unaffected.
	if _, err := f.service.Prepare(ctx, "cart-2", testWallet); err != nil {
		t.Errorf("Prepare for another cart: %v", err)
	}
}

func TestPrepareIgnoresStaleActiveMarker(t *testing.T) {
	f := newServiceFixture(t, singleLine(), &fakeReceipts{err: starknet.ErrReceiptNotFound})
	ctx := context.Background()

	// Marker points at a session that no longer exists.
	f.store.Set(ctx, "checkout:active:cart-1", "gone", time.Minute)

	if _, err := f.service.Prepare(ctx, "cart-1", testWallet); err != nil {
		t.Fatalf("Prepare with stale marker: %v", err)
	}
}

func TestPrepareRejectsBadInput(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeReceipts{err: starknet.ErrReceiptNotFound})
	ctx := context.Background()

	if _, err := f.service.Prepare(ctx, "cart-1", "not-an-address"); err == nil {
		t.Error("expected error for malformed wallet address")
	}
	if _, err := f.service.Prepare(ctx, "cart-1", testWallet); err == nil {
		t.Error("expected error for empty cart")
	}
}

func TestReportSubmittedRejectsMalformedHash(t *testing.T) {
	f := newServiceFixture(t, singleLine(), &fakeReceipts{err: starknet.ErrReceiptNotFound})
	ctx := context.Background()

	session, err := f.service.Prepare(ctx, "cart-1", testWallet)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if _, err := f.service.ReportSubmitted(ctx, session.ID, "deadbeef"); err == nil {
		t.Error("expected error for non-felt transaction hash")
	}

	loaded, err := f.service.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Status != StatusSubmitting {
		t.Errorf("status after bad hash = %s, want %s", loaded.Status, StatusSubmitting)
	}
}

func TestConfirmedCheckoutClearsCart(t *testing.T) {
	receipts := &fakeReceipts{receipt: &starknet.Receipt{
		TransactionHash: "0xabc",
		ExecutionStatus: "SUCCEEDED",
	}}
	f := newServiceFixture(t, singleLine(), receipts)
	ctx := context.Background()

	session, err := f.service.Prepare(ctx, "cart-1", testWallet)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if _, err := f.service.ReportSubmitted(ctx, session.ID, "0xabc"); err != nil {
		t.Fatalf("ReportSubmitted: %v", err)
	}

	final := waitForTerminal(t, f.service, session.ID)
	if final.Status != StatusConfirmed {
		t.Fatalf("status = %s, want %s", final.Status, StatusConfirmed)
	}
	if !f.carts.wasCleared() {
		t.Error("cart not cleared after confirmation")
	}
	if f.store.has("checkout:active:cart-1") {
		t.Error("active marker not cleared after confirmation")
	}
}

func TestRevertedCheckoutKeepsCart(t *testing.T) {
	receipts := &fakeReceipts{receipt: &starknet.Receipt{
		TransactionHash: "0xabc",
		ExecutionStatus: "REVERTED",
		RevertReason:    "Not enough quantity available",
	}}
	f := newServiceFixture(t, singleLine(), receipts)
	ctx := context.Background()

	session, err := f.service.Prepare(ctx, "cart-1", testWallet)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if _, err := f.service.ReportSubmitted(ctx, session.ID, "0xabc"); err != nil {
		t.Fatalf("ReportSubmitted: %v", err)
	}

	final := waitForTerminal(t, f.service, session.ID)
	if final.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", final.Status, StatusFailed)
	}
	if final.ErrorKind != ErrorKindInsufficientStock {
		t.Errorf("error kind = %s, want %s", final.ErrorKind, ErrorKindInsufficientStock)
	}
	if f.carts.wasCleared() {
		t.Error("cart must survive a failed checkout")
	}
	if f.store.has("checkout:active:cart-1") {
		t.Error("active marker not cleared after failure")
	}
}

func TestReportRejectedReleasesGuard(t *testing.T) {
	f := newServiceFixture(t, singleLine(), &fakeReceipts{err: starknet.ErrReceiptNotFound})
	ctx := context.Background()

	session, err := f.service.Prepare(ctx, "cart-1", testWallet)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	rejected, err := f.service.ReportRejected(ctx, session.ID)
	if err != nil {
		t.Fatalf("ReportRejected: %v", err)
	}
	if rejected.Status != StatusFailed || rejected.ErrorKind != ErrorKindUserRejected {
		t.Errorf("got %s/%s, want %s/%s",
			rejected.Status, rejected.ErrorKind, StatusFailed, ErrorKindUserRejected)
	}
	if f.carts.wasCleared() {
		t.Error("cart must survive a rejected checkout")
	}

	// The cart is free for another attempt.
	if _, err := f.service.Prepare(ctx, "cart-1", testWallet); err != nil {
		t.Errorf("Prepare after rejection: %v", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	f := newServiceFixture(t, nil, &fakeReceipts{err: starknet.ErrReceiptNotFound})

	if _, err := f.service.Get(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

// waitForTerminal polls the session until the receipt watcher settles it.
func waitForTerminal(t *testing.T, service *Service, checkoutID string) *Session {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		session, err := service.Get(context.Background(), checkoutID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if session.Status.Terminal() {
			return session
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session never reached a terminal status")
	return nil
}
