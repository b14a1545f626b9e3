// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Nonce of an account.
type Nonce Felt

// NewNonce creates a nonce from uint64.
func NewNonce(v uint64) Nonce { return Nonce(FeltFromUint64(v)) }

// Next returns the nonce incremented by one.
// An error returned when the result would leave the field.
func (n Nonce) Next() (Nonce, error) {
	next := new(uint256.Int).AddUint64(Felt(n).Uint256(), 1)
	if next.Cmp(Prime) >= 0 {
		return Nonce{}, errors.Wrapf(ErrOutOfRange, "nonce %v overflow", Felt(n))
	}
	return Nonce(next.Bytes32()), nil
}

func (n Nonce) String() string { return Felt(n).String() }
func (n Nonce) IsZero() bool { return n == Nonce{} }
func (n Nonce) MarshalText() ([]byte, error) { return Felt(n).MarshalText() }
func (n *Nonce) UnmarshalText(text []byte) error { return (*Felt)(n).UnmarshalText(text) }
