package starknet

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeShortString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple word", input: "hello", want: "0x68656c6c6f"},
		{name: "empty string", input: "", want: "0x0"},
		{name: "max length", input: strings.Repeat("a", 31), wantErr: false},
		{name: "too long", input: strings.Repeat("a", 32), wantErr: true},
		{name: "non ascii", input: "café", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeShortString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("EncodeShortString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShortStringRoundTrip(t *testing.T) {
	inputs := []string{"STRK", "Digital Art NFT #001", "/placeholder.svg", "a"}

	for _, input := range inputs {
		felt, err := EncodeShortString(input)
		if err != nil {
			t.Fatalf("encode %q: %v", input, err)
		}
		decoded, err := DecodeShortString(felt)
		if err != nil {
			t.Fatalf("decode %q: %v", felt, err)
		}
		if decoded != input {
			t.Errorf("round trip %q: got %q", input, decoded)
		}
	}
}

func TestParseFeltAcceptsHexAndDecimal(t *testing.T) {
	fromHex, err := ParseFelt("0xff")
	if err != nil {
		t.Fatalf("hex parse: %v", err)
	}
	fromDecimal, err := ParseFelt("255")
	if err != nil {
		t.Fatalf("decimal parse: %v", err)
	}
	if !fromHex.Eq(fromDecimal) {
		t.Errorf("hex and decimal forms disagree: %s vs %s", fromHex, fromDecimal)
	}

	// Wallet addresses come zero-padded to the full felt width.
	padded, err := ParseFelt("0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d")
	if err != nil {
		t.Fatalf("padded address parse: %v", err)
	}
	unpadded, err := ParseFelt("0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d")
	if err != nil {
		t.Fatalf("unpadded address parse: %v", err)
	}
	if !padded.Eq(unpadded) {
		t.Errorf("padded and unpadded forms disagree: %s vs %s", padded, unpadded)
	}
	if zero, err := ParseFelt("0x00"); err != nil || !zero.IsZero() {
		t.Errorf("ParseFelt(0x00) = %v, %v, want zero", zero, err)
	}

	if _, err := ParseFelt(""); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseFelt("not-a-number"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestEntryPointSelector(t *testing.T) {
	// Selectors must be deterministic, distinct per name, and fit in 250 bits.
	a := EntryPointSelector("buy_product")
	b := EntryPointSelector("buy_product")
	c := EntryPointSelector("approve")

	if a != b {
		t.Errorf("selector not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("distinct entrypoints produced the same selector")
	}

	value, err := uint256.FromHex(a)
	if err != nil {
		t.Fatalf("selector is not valid hex: %v", err)
	}
	if value.BitLen() > 250 {
		t.Errorf("selector exceeds 250 bits: %d", value.BitLen())
	}
}
