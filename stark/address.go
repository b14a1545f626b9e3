// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// addressUpperBound bounds contract addresses and storage keys, 2^251.
var addressUpperBound = new(uint256.Int).Lsh(uint256.NewInt(1), 251)

// Address address of contract.
type Address Felt

// ParseAddress converts string presented address into Address type.
func ParseAddress(s string) (Address, error) {
	f, err := ParseFelt(s)
	if err != nil {
		return Address{}, err
	}
	return AddressFromFelt(f)
}

// MustParseAddress converts s into Address, panic on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressFromFelt checks the range of f and converts it into Address.
func AddressFromFelt(f Felt) (Address, error) {
	if f.Uint256().Cmp(addressUpperBound) >= 0 {
		return Address{}, errors.Wrapf(ErrOutOfRange, "address %v", f)
	}
	return Address(f), nil
}

// String implements the stringer interface.
func (a Address) String() string { return Felt(a).String() }

// Felt returns the felt form of a.
func (a Address) Felt() Felt { return Felt(a) }

// IsZero returns if the address is zero.
func (a Address) IsZero() bool { return a == Address{} }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return Felt(a).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	var f Felt
	if err := f.UnmarshalText(text); err != nil {
		return err
	}
	addr, err := AddressFromFelt(f)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// StorageKey key of a contract storage slot.
type StorageKey Felt

// StorageKeyFromFelt checks the range of f and converts it into StorageKey.
func StorageKeyFromFelt(f Felt) (StorageKey, error) {
	if f.Uint256().Cmp(addressUpperBound) >= 0 {
		return StorageKey{}, errors.Wrapf(ErrOutOfRange, "storage key %v", f)
	}
	return StorageKey(f), nil
}

// Offset returns the key n slots after k.
func (k StorageKey) Offset(n uint64) (StorageKey, error) {
	next := new(uint256.Int).Add(Felt(k).Uint256(), uint256.NewInt(n))
	if next.Cmp(addressUpperBound) >= 0 {
		return StorageKey{}, errors.Wrapf(ErrOutOfRange, "storage key %v + %d", Felt(k), n)
	}
	return StorageKey(next.Bytes32()), nil
}

func (k StorageKey) String() string { return Felt(k).String() }

// MarshalText implements encoding.TextMarshaler.
func (k StorageKey) MarshalText() ([]byte, error) { return Felt(k).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StorageKey) UnmarshalText(text []byte) error {
	var f Felt
	if err := f.UnmarshalText(text); err != nil {
		return err
	}
	key, err := StorageKeyFromFelt(f)
	if err != nil {
		return err
	}
	*k = key
	return nil
}
