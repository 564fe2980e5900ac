// internal/domain/checkout/errors.go
package checkout

import "strings"

// ErrorKind classifies why a checkout failed. Kinds are stable identifiers
// the storefront can branch on; free-form revert text only ever travels in
// the accompanying message.
type ErrorKind string

const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindInsufficientBalance   ErrorKind = "insufficient_balance"
	ErrorKindInsufficientAllowance ErrorKind = "insufficient_allowance"
	ErrorKindInsufficientStock     ErrorKind = "insufficient_stock"
	ErrorKindUserRejected          ErrorKind = "user_rejected"
	ErrorKindPriceMismatch         ErrorKind = "price_mismatch"
	ErrorKindUnknown               ErrorKind = "unknown"
)

// Message returns a user-facing description for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorKindInsufficientBalance:
		return "Insufficient token balance for this purchase"
	case ErrorKindInsufficientAllowance:
		return "Token spending approval required"
	case ErrorKindInsufficientStock:
		return "Insufficient product stock"
	case ErrorKindUserRejected:
		return "Transaction was rejected in the wallet"
	case ErrorKindPriceMismatch:
		return "Product price changed, please retry"
	default:
		return "Transaction failed. Please try again"
	}
}

// ClassifyFailure maps a revert reason or wallet error message to an
// ErrorKind. Revert payloads are free text that varies across contract and
// wallet versions, so matching is case-insensitive substring search with the
// more specific markers checked first.
func ClassifyFailure(reason string) ErrorKind {
	msg := strings.ToLower(reason)
	switch {
	case msg == "":
		return ErrorKindUnknown
	case strings.Contains(msg, "allowance"):
		return ErrorKindInsufficientAllowance
	case strings.Contains(msg, "quantity") || strings.Contains(msg, "stock"):
		return ErrorKindInsufficientStock
	case strings.Contains(msg, "price"):
		return ErrorKindPriceMismatch
	case strings.Contains(msg, "reject") || strings.Contains(msg, "denied"):
		return ErrorKindUserRejected
	case strings.Contains(msg, "insufficient") || strings.Contains(msg, "balance"):
		return ErrorKindInsufficientBalance
	default:
		return ErrorKindUnknown
	}
}
