// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

import (
	"bytes"
	"encoding"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// FeltLength length of felt in bytes.
const FeltLength = 32

// Prime is the modulus of the field, 2^251 + 17*2^192 + 1.
var Prime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

// ErrOutOfRange is returned when a value does not fit the expected range.
var ErrOutOfRange = errors.New("value out of range")

// Felt is a field element, stored big-endian.
type Felt [FeltLength]byte

var (
	_ encoding.TextMarshaler   = Felt{}
	_ encoding.TextUnmarshaler = (*Felt)(nil)
)

// FeltFromUint64 converts v into Felt.
func FeltFromUint64(v uint64) Felt {
	return Felt(new(uint256.Int).SetUint64(v).Bytes32())
}

// FeltFromUint256 converts v into Felt. An error returned if v is not less than Prime.
func FeltFromUint256(v *uint256.Int) (Felt, error) {
	if v.Cmp(Prime) >= 0 {
		return Felt{}, errors.Wrapf(ErrOutOfRange, "felt %v", v.Hex())
	}
	return Felt(v.Bytes32()), nil
}

// BytesToFelt converts bytes slice into Felt.
// If b is larger than Felt length, b will be cropped (from the left).
// If b is smaller than Felt length, b will be extended (from the left).
func BytesToFelt(b []byte) Felt {
	return Felt(common.BytesToHash(b))
}

// ParseFelt parses a hex string with 0x prefix or a decimal string into Felt.
func ParseFelt(s string) (Felt, error) {
	var v *uint256.Int
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		h := s[2:]
		if len(h) == 0 || len(h) > FeltLength*2 {
			return Felt{}, errors.Errorf("invalid felt %q", s)
		}
		if len(h)%2 == 1 {
			h = "0" + h
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return Felt{}, errors.Wrapf(err, "invalid felt %q", s)
		}
		v = new(uint256.Int).SetBytes(b)
	} else {
		var err error
		if v, err = uint256.FromDecimal(s); err != nil {
			return Felt{}, errors.Wrapf(err, "invalid felt %q", s)
		}
	}
	return FeltFromUint256(v)
}

// MustParseFelt parses s into Felt, panic on error.
func MustParseFelt(s string) Felt {
	f, err := ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// String implements stringer. Leading zeros are omitted.
func (f Felt) String() string {
	return f.Uint256().Hex()
}

// Bytes returns byte slice form of Felt.
func (f Felt) Bytes() []byte {
	return f[:]
}

// IsZero returns if Felt has all zero bytes.
func (f Felt) IsZero() bool {
	return f == Felt{}
}

// Uint256 returns the value as a new uint256.
func (f Felt) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(f[:])
}

// Uint64 returns the value as uint64, and whether it fits.
func (f Felt) Uint64() (uint64, bool) {
	u := f.Uint256()
	return u.Uint64(), u.IsUint64()
}

// Cmp compares f and other numerically.
func (f Felt) Cmp(other Felt) int {
	return bytes.Compare(f[:], other[:])
}

// Add returns f + other in the field.
func (f Felt) Add(other Felt) Felt {
	sum := new(uint256.Int).AddMod(f.Uint256(), other.Uint256(), Prime)
	return Felt(sum.Bytes32())
}

// MarshalText implements encoding.TextMarshaler.
func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Felt) UnmarshalText(text []byte) error {
	parsed, err := ParseFelt(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
