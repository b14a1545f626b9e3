// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package versioned

import (
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
)

// StorageCell identifies a contract storage slot.
type StorageCell = state.StorageCell

// State dispatches versioned reads and writes of the four state categories
// to their stores. It is shared by all transactions of a batch.
type State struct {
	storage           *Storage[StorageCell, stark.Felt]
	classHash         *Storage[stark.Address, stark.ClassHash]
	nonce             *Storage[stark.Address, stark.Nonce]
	compiledClassHash *Storage[stark.ClassHash, stark.CompiledClassHash]
}

// NewState binds the stores to base, the state at batch start.
func NewState(base state.Reader) *State {
	return &State{
		storage: newStorage(ContractStorage.name, func(c StorageCell) (stark.Felt, error) {
			return base.GetStorageAt(c.Address, c.Key)
		}),
		classHash:         newStorage(ClassHash.name, base.GetClassHashAt),
		nonce:             newStorage(Nonce.name, base.GetNonceAt),
		compiledClassHash: newStorage(CompiledClassHash.name, base.GetCompiledClassHash),
	}
}

// Kind is a state category with its cell and value types.
type Kind[K comparable, V any] struct {
	name  string
	store func(s *State) *Storage[K, V]
}

func (k Kind[K, V]) String() string { return k.name }

// The four state categories.
var (
	ContractStorage = Kind[StorageCell, stark.Felt]{"storage", func(s *State) *Storage[StorageCell, stark.Felt] {
		return s.storage
	}}
	ClassHash = Kind[stark.Address, stark.ClassHash]{"class_hash", func(s *State) *Storage[stark.Address, stark.ClassHash] {
		return s.classHash
	}}
	Nonce = Kind[stark.Address, stark.Nonce]{"nonce", func(s *State) *Storage[stark.Address, stark.Nonce] {
		return s.nonce
	}}
	CompiledClassHash = Kind[stark.ClassHash, stark.CompiledClassHash]{"compiled_class_hash", func(s *State) *Storage[stark.ClassHash, stark.CompiledClassHash] {
		return s.compiledClassHash
	}}
)

// Read reads cell of kind at version.
func Read[K comparable, V any](s *State, kind Kind[K, V], cell K, version Version) V {
	return kind.store(s).Read(cell, version)
}

// Write writes cell of kind at version.
func Write[K comparable, V any](s *State, kind Kind[K, V], cell K, version Version, value V) {
	kind.store(s).Write(cell, version, value)
}

func (s *State) GetStorageAt(addr stark.Address, key stark.StorageKey, version Version) stark.Felt {
	return s.storage.Read(StorageCell{Address: addr, Key: key}, version)
}

func (s *State) SetStorageAt(addr stark.Address, key stark.StorageKey, version Version, value stark.Felt) {
	s.storage.Write(StorageCell{Address: addr, Key: key}, version, value)
}

func (s *State) GetNonceAt(addr stark.Address, version Version) stark.Nonce {
	return s.nonce.Read(addr, version)
}

func (s *State) SetNonceAt(addr stark.Address, version Version, nonce stark.Nonce) {
	s.nonce.Write(addr, version, nonce)
}

func (s *State) GetClassHashAt(addr stark.Address, version Version) stark.ClassHash {
	return s.classHash.Read(addr, version)
}

func (s *State) SetClassHashAt(addr stark.Address, version Version, classHash stark.ClassHash) {
	s.classHash.Write(addr, version, classHash)
}

func (s *State) GetCompiledClassHash(classHash stark.ClassHash, version Version) stark.CompiledClassHash {
	return s.compiledClassHash.Read(classHash, version)
}

func (s *State) SetCompiledClassHash(classHash stark.ClassHash, version Version, compiled stark.CompiledClassHash) {
	s.compiledClassHash.Write(classHash, version, compiled)
}

// Apply writes the latest value of every written cell into dst.
func (s *State) Apply(dst state.State) (err error) {
	s.storage.Range(func(c StorageCell, _ Version, v stark.Felt) bool {
		err = dst.SetStorageAt(c.Address, c.Key, v)
		return err == nil
	})
	if err != nil {
		return
	}
	s.nonce.Range(func(addr stark.Address, _ Version, v stark.Nonce) bool {
		err = dst.SetNonce(addr, v)
		return err == nil
	})
	if err != nil {
		return
	}
	s.classHash.Range(func(addr stark.Address, _ Version, v stark.ClassHash) bool {
		err = dst.SetClassHashAt(addr, v)
		return err == nil
	})
	if err != nil {
		return
	}
	s.compiledClassHash.Range(func(ch stark.ClassHash, _ Version, v stark.CompiledClassHash) bool {
		err = dst.SetCompiledClassHash(ch, v)
		return err == nil
	})
	return
}
