// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package versioned

import (
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
)

// View is the state seen and written by the transaction at a fixed version.
type View struct {
	s       *State
	version Version
}

var _ state.State = (*View)(nil)

// View returns the view of s at version.
func (s *State) View(version Version) *View {
	return &View{s, version}
}

// Version returns the version of the view.
func (v *View) Version() Version { return v.version }

func (v *View) GetStorageAt(addr stark.Address, key stark.StorageKey) (stark.Felt, error) {
	return v.s.GetStorageAt(addr, key, v.version), nil
}

func (v *View) GetNonceAt(addr stark.Address) (stark.Nonce, error) {
	return v.s.GetNonceAt(addr, v.version), nil
}

func (v *View) GetClassHashAt(addr stark.Address) (stark.ClassHash, error) {
	return v.s.GetClassHashAt(addr, v.version), nil
}

func (v *View) GetCompiledClassHash(classHash stark.ClassHash) (stark.CompiledClassHash, error) {
	return v.s.GetCompiledClassHash(classHash, v.version), nil
}

func (v *View) SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error {
	v.s.SetStorageAt(addr, key, v.version, value)
	return nil
}

func (v *View) IncrementNonce(addr stark.Address) error {
	next, err := v.s.GetNonceAt(addr, v.version).Next()
	if err != nil {
		return err
	}
	v.s.SetNonceAt(addr, v.version, next)
	return nil
}

func (v *View) SetNonce(addr stark.Address, nonce stark.Nonce) error {
	v.s.SetNonceAt(addr, v.version, nonce)
	return nil
}

func (v *View) SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error {
	v.s.SetClassHashAt(addr, v.version, classHash)
	return nil
}

func (v *View) SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error {
	v.s.SetCompiledClassHash(classHash, v.version, compiled)
	return nil
}
