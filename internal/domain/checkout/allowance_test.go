package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

type fakeCaller struct {
	result []string
	err    error
	last   *starknet.Call
}

func (f *fakeCaller) Call(ctx context.Context, call starknet.Call) ([]string, error) {
	f.last = &call
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHasSufficientAllowance(t *testing.T) {
	required := uint256.NewInt(1000)

	tests := []struct {
		name   string
		result []string
		err    error
		want   bool
	}{
		{"flat word covers", []string{"0x3e8"}, nil, true},
		{"flat word short", []string{"0x3e7"}, nil, false},
		{"pair covers", []string{"0x3e8", "0x0"}, nil, true},
		{"pair short", []string{"0x1", "0x0"}, nil, false},
		{"high half covers", []string{"0x0", "0x1"}, nil, true},
		{"read error fails closed", nil, errors.New("rpc down"), false},
		{"empty response fails closed", []string{}, nil, false},
		{"malformed response fails closed", []string{"not-a-felt"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{result: tt.result, err: tt.err}
			checker := NewAllowanceChecker(caller, checkoutConfig(), quietLogger())

			got := checker.HasSufficientAllowance(context.Background(), "0xowner", required)
			if got != tt.want {
				t.Errorf("HasSufficientAllowance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowanceCallShape(t *testing.T) {
	caller := &fakeCaller{result: []string{"0x0"}}
	checker := NewAllowanceChecker(caller, checkoutConfig(), quietLogger())

	checker.HasSufficientAllowance(context.Background(), "0xowner", uint256.NewInt(1))

	if caller.last == nil {
		t.Fatal("no call recorded")
	}
	if caller.last.ContractAddress != testTokenAddress {
		t.Errorf("contract = %s, want token contract", caller.last.ContractAddress)
	}
	if caller.last.EntryPoint != "allowance" {
		t.Errorf("entry point = %s, want allowance", caller.last.EntryPoint)
	}
	want := []string{"0xowner", testStoreAddress}
	if len(caller.last.Calldata) != 2 || caller.last.Calldata[0] != want[0] || caller.last.Calldata[1] != want[1] {
		t.Errorf("calldata = %v, want %v", caller.last.Calldata, want)
	}
}
