// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Fee is an amount of fee token. It never exceeds 128 bits.
type Fee struct {
	v uint256.Int
}

// NewFee creates a fee from uint64.
func NewFee(v uint64) Fee {
	var f Fee
	f.v.SetUint64(v)
	return f
}

// FeeFromUint256 converts v into Fee. An error returned if v exceeds 128 bits.
func FeeFromUint256(v *uint256.Int) (Fee, error) {
	if v.BitLen() > 128 {
		return Fee{}, errors.Wrapf(ErrOutOfRange, "fee %v", v.Dec())
	}
	return Fee{v: *v}, nil
}

// IsZero returns whether the fee is zero.
func (f Fee) IsZero() bool { return f.v.IsZero() }

// Cmp compares f and other.
func (f Fee) Cmp(other Fee) int { return f.v.Cmp(&other.v) }

// Uint256 returns a copy of the amount.
func (f Fee) Uint256() *uint256.Int { return new(uint256.Int).Set(&f.v) }

// Felt returns the amount as a felt. 128 bits always fit the field.
func (f Fee) Felt() Felt { return Felt(f.v.Bytes32()) }

// String returns the decimal form.
func (f Fee) String() string { return f.v.Dec() }

// MarshalText implements encoding.TextMarshaler.
func (f Fee) MarshalText() ([]byte, error) { return []byte(f.v.Dec()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Decimal and 0x-prefixed hex are accepted.
func (f *Fee) UnmarshalText(text []byte) error {
	felt, err := ParseFelt(string(text))
	if err != nil {
		return err
	}
	fee, err := FeeFromUint256(felt.Uint256())
	if err != nil {
		return err
	}
	*f = fee
	return nil
}
