// internal/infrastructure/starknet/felt.go
package starknet

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// MaxShortStringLength is the maximum number of ASCII characters that fit in
// a single felt252 short string.
const MaxShortStringLength = 31

// ParseFelt parses a field element from its RPC wire form. Node responses use
// 0x-prefixed hex; wallet payloads occasionally carry plain decimal strings,
// so both are accepted.
func ParseFelt(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty felt value")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		// Addresses arrive zero-padded ("0x04...") from wallets and
		// explorers; uint256.FromHex rejects leading zero digits.
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			digits = "0"
		}
		value, err := uint256.FromHex("0x" + strings.ToLower(digits))
		if err != nil {
			return nil, fmt.Errorf("invalid felt hex %q: %w", s, err)
		}
		return value, nil
	}

	value := new(uint256.Int)
	if err := value.SetFromDecimal(s); err != nil {
		return nil, fmt.Errorf("invalid felt decimal %q: %w", s, err)
	}
	return value, nil
}

// FeltFromUint64 encodes an unsigned integer as a felt hex string.
func FeltFromUint64(v uint64) string {
	return uint256.NewInt(v).Hex()
}

// FeltFromUint256 encodes a 256-bit integer as a felt hex string. The caller
// is responsible for ensuring the value fits in the felt252 range.
func FeltFromUint256(v *uint256.Int) string {
	return v.Hex()
}

// EncodeShortString encodes an ASCII string of at most 31 characters into a
// felt, big-endian byte order, matching Cairo short-string semantics.
func EncodeShortString(s string) (string, error) {
	if len(s) == 0 {
		return "0x0", nil
	}
	if len(s) > MaxShortStringLength {
		return "", fmt.Errorf("short string %q exceeds %d characters", s, MaxShortStringLength)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return "", fmt.Errorf("short string %q contains non-ASCII character at index %d", s, i)
		}
	}

	value := new(uint256.Int).SetBytes([]byte(s))
	return value.Hex(), nil
}

// DecodeShortString decodes a felt back into its ASCII short-string form.
// Non-printable bytes are dropped so a malformed on-chain value degrades to a
// best-effort display string instead of an error.
func DecodeShortString(felt string) (string, error) {
	value, err := ParseFelt(felt)
	if err != nil {
		return "", err
	}

	raw := value.Bytes()
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b >= 32 && b < 127 {
			out = append(out, b)
		}
	}
	return string(out), nil
}

// EntryPointSelector computes the starknet_keccak selector for an entrypoint
// name: keccak256 of the name truncated to 250 bits.
func EntryPointSelector(name string) string {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(name))

	selector := new(uint256.Int).SetBytes(hash.Sum(nil))

	// Keep the low 250 bits.
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), 250)
	mask.Sub(mask, uint256.NewInt(1))
	selector.And(selector, mask)

	return selector.Hex()
}
