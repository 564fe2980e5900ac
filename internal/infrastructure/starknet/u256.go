// internal/infrastructure/starknet/u256.go
package starknet

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ParseU256 normalizes a u256 read result. Depending on the node and client
// library version a u256 comes back either as a single flat word or as a
// (low, high) pair of 128-bit halves; both shapes must decode to the same
// value.
func ParseU256(words []string) (*uint256.Int, error) {
	switch len(words) {
	case 1:
		return ParseFelt(words[0])
	case 2:
		low, err := ParseFelt(words[0])
		if err != nil {
			return nil, fmt.Errorf("invalid u256 low word: %w", err)
		}
		high, err := ParseFelt(words[1])
		if err != nil {
			return nil, fmt.Errorf("invalid u256 high word: %w", err)
		}
		if low.BitLen() > 128 || high.BitLen() > 128 {
			return nil, fmt.Errorf("u256 half exceeds 128 bits")
		}

		value := new(uint256.Int).Lsh(high, 128)
		value.Or(value, low)
		return value, nil
	default:
		return nil, fmt.Errorf("unexpected u256 word count: %d", len(words))
	}
}

// SplitU256 splits a 256-bit integer into its low and high 128-bit halves,
// the order the contract calldata encoding expects.
func SplitU256(v *uint256.Int) (low, high *uint256.Int) {
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	mask.Sub(mask, uint256.NewInt(1))

	low = new(uint256.Int).And(v, mask)
	high = new(uint256.Int).Rsh(v, 128)
	return low, high
}

// U256Calldata encodes a 256-bit integer as the two calldata felts the
// contract ABI expects, low half first.
func U256Calldata(v *uint256.Int) (lowFelt, highFelt string) {
	low, high := SplitU256(v)
	return low.Hex(), high.Hex()
}
