// internal/domain/checkout/session.go
package checkout

import (
	"fmt"
	"time"

	"github.com/Olowodarey/web3-ecommerce/internal/domain/cart"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

// Status represents checkout session status
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusSubmitting           Status = "submitting"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusConfirmed            Status = "confirmed"
	StatusFailed               Status = "failed"
)

// InFlight reports whether the session still blocks a new checkout for the
// same cart.
func (s Status) InFlight() bool {
	return s == StatusSubmitting || s == StatusAwaitingConfirmation
}

// Terminal reports whether the session reached a final state.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// PlanSummary is the persisted snapshot of the payment plan a session was
// prepared with. The plan itself is recomputed on every attempt; this copy
// exists only for display and audit.
type PlanSummary struct {
	TokenAmount      string  `json:"token_amount"`
	TotalPriceCents  uint32  `json:"total_price_cents"`
	TokenPriceUSD    float64 `json:"token_price_usd"`
	BufferMultiplier float64 `json:"buffer_multiplier"`
}

// Session is one checkout attempt. It is created in Submitting with the
// prepared call batch, and advances only through the transition methods
// below; every other mutation path is a bug.
type Session struct {
	ID            string          `json:"id"`
	CartSessionID string          `json:"cart_session_id"`
	WalletAddress string          `json:"wallet_address"`
	Status        Status          `json:"status"`
	Lines         []cart.LineItem `json:"lines"`
	Plan          PlanSummary     `json:"plan"`
	Calls         []starknet.Call `json:"calls"`
	TxHash        string          `json:"tx_hash,omitempty"`
	ErrorKind     ErrorKind       `json:"error_kind,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MarkSubmitted records the wallet-reported transaction hash and moves the
// session to AwaitingConfirmation.
func (s *Session) MarkSubmitted(txHash string) error {
	if s.Status != StatusSubmitting {
		return fmt.Errorf("cannot submit checkout in status %q", s.Status)
	}
	if txHash == "" {
		return fmt.Errorf("transaction hash required")
	}
	s.Status = StatusAwaitingConfirmation
	s.TxHash = txHash
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkRejected records a wallet-side rejection before anything reached the
// chain.
func (s *Session) MarkRejected() error {
	if s.Status != StatusSubmitting {
		return fmt.Errorf("cannot reject checkout in status %q", s.Status)
	}
	s.Status = StatusFailed
	s.ErrorKind = ErrorKindUserRejected
	s.ErrorMessage = ErrorKindUserRejected.Message()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkConfirmed finalizes a successfully executed transaction.
func (s *Session) MarkConfirmed() error {
	if s.Status != StatusAwaitingConfirmation {
		return fmt.Errorf("cannot confirm checkout in status %q", s.Status)
	}
	s.Status = StatusConfirmed
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed finalizes a reverted or otherwise failed transaction.
func (s *Session) MarkFailed(kind ErrorKind, message string) error {
	if s.Status.Terminal() {
		return fmt.Errorf("checkout already finished with status %q", s.Status)
	}
	if kind == ErrorKindNone {
		kind = ErrorKindUnknown
	}
	if message == "" {
		message = kind.Message()
	}
	s.Status = StatusFailed
	s.ErrorKind = kind
	s.ErrorMessage = message
	s.UpdatedAt = time.Now().UTC()
	return nil
}
