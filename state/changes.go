// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/l2exec/stark"

// StateChanges is the net effect of an overlay on its parent.
type StateChanges struct {
	Storage             map[StorageCell]stark.Felt
	Nonces              map[stark.Address]stark.Nonce
	ClassHashes         map[stark.Address]stark.ClassHash
	CompiledClassHashes map[stark.ClassHash]stark.CompiledClassHash
}

// NewStateChanges creates an empty StateChanges.
func NewStateChanges() *StateChanges {
	return &StateChanges{
		Storage:             make(map[StorageCell]stark.Felt),
		Nonces:              make(map[stark.Address]stark.Nonce),
		ClassHashes:         make(map[stark.Address]stark.ClassHash),
		CompiledClassHashes: make(map[stark.ClassHash]stark.CompiledClassHash),
	}
}

// ModifiedContracts returns the addresses whose storage, nonce or class hash changed.
func (c *StateChanges) ModifiedContracts() map[stark.Address]struct{} {
	contracts := make(map[stark.Address]struct{})
	for cell := range c.Storage {
		contracts[cell.Address] = struct{}{}
	}
	for addr := range c.Nonces {
		contracts[addr] = struct{}{}
	}
	for addr := range c.ClassHashes {
		contracts[addr] = struct{}{}
	}
	return contracts
}

// StateChangesCount summarizes StateChanges for fee accounting.
type StateChangesCount struct {
	ModifiedContracts        int
	StorageUpdates           int
	ClassHashUpdates         int
	CompiledClassHashUpdates int
	NonceUpdates             int
}

// Count counts the changes. Extra contracts and storage cells are counted
// as modified even when absent from the changes.
func (c *StateChanges) Count(extraContracts []stark.Address, extraStorage []StorageCell) StateChangesCount {
	contracts := c.ModifiedContracts()
	for _, addr := range extraContracts {
		contracts[addr] = struct{}{}
	}
	storageUpdates := len(c.Storage)
	for _, cell := range extraStorage {
		if _, ok := c.Storage[cell]; !ok {
			storageUpdates++
		}
	}
	return StateChangesCount{
		ModifiedContracts:        len(contracts),
		StorageUpdates:           storageUpdates,
		ClassHashUpdates:         len(c.ClassHashes),
		CompiledClassHashUpdates: len(c.CompiledClassHashes),
		NonceUpdates:             len(c.Nonces),
	}
}
