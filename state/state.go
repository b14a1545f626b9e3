// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/l2exec/stark"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StorageCell identifies one storage slot of a contract.
type StorageCell struct {
	Address stark.Address
	Key     stark.StorageKey
}

func (c StorageCell) String() string {
	return c.Address.String() + "/" + c.Key.String()
}

// Reader reads the four state categories. Absent entries read as zero.
type Reader interface {
	GetStorageAt(addr stark.Address, key stark.StorageKey) (stark.Felt, error)
	GetNonceAt(addr stark.Address) (stark.Nonce, error)
	GetClassHashAt(addr stark.Address) (stark.ClassHash, error)
	GetCompiledClassHash(classHash stark.ClassHash) (stark.CompiledClassHash, error)
}

// State is the read-write state used by the runtime.
type State interface {
	Reader

	SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error
	// IncrementNonce advances the nonce of addr by one.
	IncrementNonce(addr stark.Address) error
	SetNonce(addr stark.Address, nonce stark.Nonce) error
	SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error
	SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error
}

// setter receives the writes of a commit.
type setter interface {
	SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error
	SetNonce(addr stark.Address, nonce stark.Nonce) error
	SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error
	SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error
}

// batcher is a State that applies the writes of fn all together or not at all.
type batcher interface {
	writeBatch(fn func(setter) error) error
}

// keys of the state categories, shared by the overlay and the db.
type (
	storageKey           StorageCell
	nonceKey             stark.Address
	classHashKey         stark.Address
	compiledClassHashKey stark.ClassHash
)

// incrementNonce is the read-increment-write shared by State implementations.
func incrementNonce(s State, addr stark.Address) error {
	cur, err := s.GetNonceAt(addr)
	if err != nil {
		return err
	}
	next, err := cur.Next()
	if err != nil {
		return &Error{fmt.Errorf("increment nonce of %v: %w", addr, err)}
	}
	return s.SetNonce(addr, next)
}
