// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

// TransactionVersion version of a transaction.
type TransactionVersion Felt

// NewTransactionVersion creates a transaction version from uint64.
func NewTransactionVersion(v uint64) TransactionVersion {
	return TransactionVersion(FeltFromUint64(v))
}

var (
	TransactionVersion0 = NewTransactionVersion(0)
	TransactionVersion1 = NewTransactionVersion(1)
	TransactionVersion2 = NewTransactionVersion(2)
	TransactionVersion3 = NewTransactionVersion(3)
)

// Cmp compares v and other numerically.
func (v TransactionVersion) Cmp(other TransactionVersion) int { return Felt(v).Cmp(Felt(other)) }

func (v TransactionVersion) String() string { return Felt(v).String() }
func (v TransactionVersion) MarshalText() ([]byte, error) { return Felt(v).MarshalText() }
func (v *TransactionVersion) UnmarshalText(text []byte) error { return (*Felt)(v).UnmarshalText(text) }

// ChainID identifies the chain.
type ChainID string
