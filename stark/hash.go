// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stark

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// ClassHash identifies a declared contract class.
type ClassHash Felt

func (h ClassHash) String() string { return Felt(h).String() }
func (h ClassHash) IsZero() bool { return h == ClassHash{} }
func (h ClassHash) MarshalText() ([]byte, error) { return Felt(h).MarshalText() }
func (h *ClassHash) UnmarshalText(text []byte) error { return (*Felt)(h).UnmarshalText(text) }

// CompiledClassHash identifies the compiled form of a class.
type CompiledClassHash Felt

func (h CompiledClassHash) String() string { return Felt(h).String() }
func (h CompiledClassHash) IsZero() bool { return h == CompiledClassHash{} }
func (h CompiledClassHash) MarshalText() ([]byte, error) { return Felt(h).MarshalText() }
func (h *CompiledClassHash) UnmarshalText(text []byte) error { return (*Felt)(h).UnmarshalText(text) }

// TransactionHash hash of a transaction.
type TransactionHash Felt

func (h TransactionHash) String() string { return Felt(h).String() }
func (h TransactionHash) MarshalText() ([]byte, error) { return Felt(h).MarshalText() }
func (h *TransactionHash) UnmarshalText(text []byte) error { return (*Felt)(h).UnmarshalText(text) }

// EntryPointSelector selects an entry point of a contract class.
type EntryPointSelector Felt

func (s EntryPointSelector) String() string { return Felt(s).String() }
func (s EntryPointSelector) MarshalText() ([]byte, error) { return Felt(s).MarshalText() }
func (s *EntryPointSelector) UnmarshalText(text []byte) error { return (*Felt)(s).UnmarshalText(text) }

// Keccak250 returns keccak256 of data with the 6 most significant bits cleared.
func Keccak250(data ...[]byte) Felt {
	h := Felt(crypto.Keccak256Hash(data...))
	h[0] &= 0x03
	return h
}

// SelectorFromName computes the selector of the entry point with the given name.
func SelectorFromName(name string) EntryPointSelector {
	return EntryPointSelector(Keccak250([]byte(name)))
}
