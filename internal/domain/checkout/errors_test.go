package checkout

import "testing"

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		reason string
		want   ErrorKind
	}{
		{"ERC20: insufficient allowance", ErrorKindInsufficientAllowance},
		{"Insufficient balance", ErrorKindInsufficientBalance},
		{"u256_sub Overflow: insufficient balance", ErrorKindInsufficientBalance},
		{"Not enough quantity available", ErrorKindInsufficientStock},
		{"Out of stock", ErrorKindInsufficientStock},
		{"Price mismatch", ErrorKindPriceMismatch},
		{"User rejected the transaction", ErrorKindUserRejected},
		{"Signature request denied", ErrorKindUserRejected},
		{"Execution failed at pc 42", ErrorKindUnknown},
		{"", ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			if got := ClassifyFailure(tt.reason); got != tt.want {
				t.Errorf("ClassifyFailure(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}

func TestErrorKindMessageNeverEmpty(t *testing.T) {
	kinds := []ErrorKind{
		ErrorKindInsufficientBalance,
		ErrorKindInsufficientAllowance,
		ErrorKindInsufficientStock,
		ErrorKindUserRejected,
		ErrorKindPriceMismatch,
		ErrorKindUnknown,
	}
	for _, kind := range kinds {
		if kind.Message() == "" {
			t.Errorf("kind %q has empty message", kind)
		}
	}
}
